package vmpg

import "fmt"

// CurveMode selects the control curve a parameter value travels along.
// The device maps the raw control range through this curve before the
// value reaches the program core.
type CurveMode uint32

const (
	CurveLinear         CurveMode = 0
	CurveLinearInverted CurveMode = 1
	CurveLinearBipolar  CurveMode = 2
	CurveBoolean        CurveMode = 3
	CurveStep2          CurveMode = 4
	CurveStep3          CurveMode = 5
	CurveStep4          CurveMode = 6
	CurveStep5          CurveMode = 7
	CurveStep6          CurveMode = 8
	CurveStep8          CurveMode = 9
	CurveStep10         CurveMode = 10
	CurveStep12         CurveMode = 11
	CurveStep16         CurveMode = 12
	CurveStep32         CurveMode = 13
	CurveAngle90        CurveMode = 14
	CurveAngle180       CurveMode = 15
	CurveAngle360       CurveMode = 16
	CurveAngleWrap90    CurveMode = 17
	CurveAngleWrap180   CurveMode = 18
	CurveAngleWrap360   CurveMode = 19
	CurvePhaseWrap      CurveMode = 20
	CurveSineIn         CurveMode = 21
	CurveSineOut        CurveMode = 22
	CurveSineInOut      CurveMode = 23
	CurveQuadIn         CurveMode = 24
	CurveQuadOut        CurveMode = 25
	CurveQuadInOut      CurveMode = 26
	CurveCubicIn        CurveMode = 27
	CurveCubicOut       CurveMode = 28
	CurveCubicInOut     CurveMode = 29
	CurveExpoIn         CurveMode = 30
	CurveExpoOut        CurveMode = 31
	CurveExpoInOut      CurveMode = 32
	CurveLogIn          CurveMode = 33
	CurveLogOut         CurveMode = 34
	CurveLogInOut       CurveMode = 35

	// CurveModeMax is the highest assigned curve mode.
	CurveModeMax = CurveLogInOut
)

var curveModeNames = [...]string{
	"linear", "linear_inverted", "linear_bipolar",
	"boolean",
	"step_2", "step_3", "step_4", "step_5", "step_6", "step_8",
	"step_10", "step_12", "step_16", "step_32",
	"angle_90", "angle_180", "angle_360",
	"angle_wrap_90", "angle_wrap_180", "angle_wrap_360",
	"phase_wrap",
	"sine_in", "sine_out", "sine_in_out",
	"quad_in", "quad_out", "quad_in_out",
	"cubic_in", "cubic_out", "cubic_in_out",
	"expo_in", "expo_out", "expo_in_out",
	"log_in", "log_out", "log_in_out",
}

func (m CurveMode) String() string {
	if int(m) < len(curveModeNames) {
		return curveModeNames[m]
	}
	return fmt.Sprintf("mode_%d", uint32(m))
}

// ParseCurveMode resolves a canonical curve mode name.
func ParseCurveMode(s string) (CurveMode, error) {
	for i, name := range curveModeNames {
		if name == s {
			return CurveMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown curve mode %q", s)
}

// ParamID names the physical or logical control a parameter record is
// bound to. User parameters have no fixed control; the rest map to the
// device front panel and CV inputs.
type ParamID uint32

const (
	ParamUser    ParamID = 0
	ParamPot1    ParamID = 1
	ParamPot2    ParamID = 2
	ParamPot3    ParamID = 3
	ParamPot4    ParamID = 4
	ParamSwitch1 ParamID = 5
	ParamSwitch2 ParamID = 6
	ParamCV1     ParamID = 7
	ParamCV2     ParamID = 8
	ParamCV3     ParamID = 9
	ParamCV4     ParamID = 10
	ParamButton1 ParamID = 11
	ParamButton2 ParamID = 12

	// ParamIDMax is the highest assigned parameter identity.
	ParamIDMax = ParamButton2
)

var paramIDNames = [...]string{
	"user",
	"pot_1", "pot_2", "pot_3", "pot_4",
	"switch_1", "switch_2",
	"cv_1", "cv_2", "cv_3", "cv_4",
	"button_1", "button_2",
}

func (p ParamID) String() string {
	if int(p) < len(paramIDNames) {
		return paramIDNames[p]
	}
	return fmt.Sprintf("param_%d", uint32(p))
}

// ParseParamID resolves a canonical parameter identity name.
func ParseParamID(s string) (ParamID, error) {
	for i, name := range paramIDNames {
		if name == s {
			return ParamID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown parameter id %q", s)
}
