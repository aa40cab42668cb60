// Package repo serves a verified package catalog over HTTP for bench
// testing device updates. Only packages that passed verification at
// scan time are listed or downloadable.
package repo

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packhash"
	"github.com/lzxindustries/videomancer-sdk-sub001/internal/packstore"
)

// Server exposes one immutable catalog. The instance id is fresh per
// construction so bench clients can detect a restart (and with it a
// possibly rescanned catalog).
type Server struct {
	catalog    *packstore.Catalog
	instanceID string
	started    time.Time
}

// NewServer wraps a scanned catalog.
func NewServer(catalog *packstore.Catalog) *Server {
	return &Server{
		catalog:    catalog,
		instanceID: uuid.NewString(),
		started:    time.Now().UTC(),
	}
}

// InstanceID returns the per-boot instance identifier.
func (s *Server) InstanceID() string {
	return s.instanceID
}

// Register mounts the repository routes.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/status", s.handleStatus)
	e.GET("/v1/packages", s.handleIndex)
	e.GET("/v1/packages/:id", s.handlePackage)
	e.GET("/v1/packages/:id/download", s.handleDownload)
}

// PackageInfo is the wire form of one catalog entry.
type PackageInfo struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Category  string   `json:"category,omitempty"`
	Core      string   `json:"core"`
	Hardware  []string `json:"hardware"`
	Signed    bool     `json:"signed"`
	FileSize  int64    `json:"file_size"`
	Digest    string   `json:"digest"`
	Artifacts []string `json:"artifacts,omitempty"`
}

func packageInfo(p *packstore.Package) PackageInfo {
	return PackageInfo{
		ID:        p.ProgramID,
		Name:      p.Name,
		Version:   p.Version,
		Category:  p.Category,
		Core:      p.Core,
		Hardware:  p.Hardware,
		Signed:    p.Signed,
		FileSize:  p.FileSize,
		Digest:    packhash.FormatDigest(p.Digest),
		Artifacts: p.Artifacts,
	}
}

func (s *Server) handleStatus(c *echo.Context) error {
	return s.writeJSON(c, http.StatusOK, map[string]any{
		"status":   "ok",
		"instance": s.instanceID,
		"started":  s.started.Format(time.RFC3339),
		"packages": len(s.catalog.Packages()),
		"rejected": len(s.catalog.Failures()),
	})
}

func (s *Server) handleIndex(c *echo.Context) error {
	pkgs := s.catalog.Packages()
	data := make([]PackageInfo, 0, len(pkgs))
	for i := range pkgs {
		data = append(data, packageInfo(&pkgs[i]))
	}
	return s.writeJSON(c, http.StatusOK, map[string]any{
		"object":   "list",
		"instance": s.instanceID,
		"data":     data,
	})
}

func (s *Server) handlePackage(c *echo.Context) error {
	pkg, ok := s.catalog.ByID(c.Param("id"))
	if !ok {
		return s.writeError(c, http.StatusNotFound, "not_found", "package not found")
	}
	return s.writeJSON(c, http.StatusOK, map[string]any{
		"object":   "package",
		"instance": s.instanceID,
		"package":  packageInfo(pkg),
	})
}

func (s *Server) handleDownload(c *echo.Context) error {
	id := c.Param("id")
	pkg, ok := s.catalog.ByID(id)
	if !ok {
		return s.writeError(c, http.StatusNotFound, "not_found", "package not found")
	}
	data, err := s.catalog.ReadImage(id)
	if err != nil {
		if errors.Is(err, packstore.ErrChanged) {
			return s.writeError(c, http.StatusConflict, "catalog_stale",
				"package changed on disk since verification; rescan required")
		}
		return s.writeError(c, http.StatusInternalServerError, "read_error", err.Error())
	}
	res := c.Response()
	res.Header().Set("X-Vmpg-Instance", s.instanceID)
	res.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(pkg.Path)))
	res.Header().Set(echo.HeaderContentType, "application/octet-stream")
	res.WriteHeader(http.StatusOK)
	_, err = res.Write(data)
	return err
}

// writeJSON serializes v with goccy go-json, which is also what the
// inspect CLI uses, so both surfaces render identical documents.
func (s *Server) writeJSON(c *echo.Context, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res := c.Response()
	res.Header().Set("X-Vmpg-Instance", s.instanceID)
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res.WriteHeader(status)
	_, err = res.Write(body)
	return err
}

func (s *Server) writeError(c *echo.Context, status int, errType, msg string) error {
	return s.writeJSON(c, status, map[string]any{
		"error": map[string]string{
			"type":    errType,
			"message": msg,
		},
	})
}
