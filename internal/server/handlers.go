package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inkpress "github.com/alnah/go-inkpress"
	"github.com/alnah/go-inkpress/internal/assets"
	"github.com/alnah/go-inkpress/internal/fileutil"
)

// errOutsideRoot rejects paths that leave the configured root.
var errOutsideRoot = errors.New("path is outside the server root")

// renderRequest is the JSON body of the preview and pdf endpoints.
type renderRequest struct {
	Markdown     string   `json:"markdown"`
	BaseDir      string   `json:"basedir"`
	Theme        string   `json:"theme"`
	Paper        string   `json:"paper"`
	Margin       string   `json:"margin"`
	TOC          *bool    `json:"toc"`
	HeaderFooter bool     `json:"headerFooter"`
	Title        string   `json:"title"`
	CSS          []string `json:"css"`
	HeaderLeft   string   `json:"headerLeft"`
	HeaderCenter string   `json:"headerCenter"`
	HeaderRight  string   `json:"headerRight"`
	FooterLeft   string   `json:"footerLeft"`
	FooterCenter string   `json:"footerCenter"`
	FooterRight  string   `json:"footerRight"`
}

// loadResponse is returned by /api/load.
type loadResponse struct {
	File     string `json:"file"`
	BaseDir  string `json:"basedir"`
	Markdown string `json:"markdown"`
}

// previewResponse is returned by /api/preview.
type previewResponse struct {
	HTML  string `json:"html"`
	Title string `json:"title"`
}

func (s *Server) handleEditor(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.editor)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleLoad returns the requested Markdown file, or the default file when
// the request names none or names an unreadable one.
func (s *Server) handleLoad(c *gin.Context) {
	file, err := s.resolveLoadFile(c.Query("file"))
	if errors.Is(err, errOutsideRoot) {
		c.String(http.StatusForbidden, err.Error())
		return
	}
	if file == "" {
		c.String(http.StatusNotFound, "No readable file found.")
		return
	}

	// #nosec G304 -- path confined to the server root when one is configured
	data, err := os.ReadFile(file)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusNotFound, "No readable file found.")
		return
	}

	c.JSON(http.StatusOK, loadResponse{
		File:     file,
		BaseDir:  filepath.Dir(file),
		Markdown: string(data),
	})
}

func (s *Server) resolveLoadFile(requested string) (string, error) {
	if requested != "" {
		path, err := s.absolute(requested)
		if err != nil {
			return "", err
		}
		if fileutil.FileExists(path) {
			return path, nil
		}
	}

	if s.cfg.DefaultFile == "" {
		return "", nil
	}
	path, err := s.absolute(s.cfg.DefaultFile)
	if err != nil || !fileutil.FileExists(path) {
		return "", nil
	}
	return path, nil
}

func (s *Server) handlePreview(c *gin.Context) {
	opts, ok := s.bindOptions(c)
	if !ok {
		return
	}

	doc, err := s.renderer.Document(c.Request.Context(), opts)
	s.metrics.observeRender("preview", err)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, previewResponse{HTML: doc.HTML, Title: doc.Title})
}

func (s *Server) handlePDF(c *gin.Context) {
	opts, ok := s.bindOptions(c)
	if !ok {
		return
	}

	result, err := s.renderer.Render(c.Request.Context(), opts)
	s.metrics.observeRender("pdf", err)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info("pdf rendered",
		zap.String("title", result.Document.Title),
		zap.Int("bytes", len(result.PDF)))

	c.Header("Content-Disposition", `attachment; filename="document.pdf"`)
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// bindOptions decodes the request body into RenderOptions, writing a 400
// response when it cannot.
func (s *Server) bindOptions(c *gin.Context) (inkpress.RenderOptions, bool) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return inkpress.RenderOptions{}, false
		}
		s.fail(c, fmt.Errorf("invalid request: %w", err))
		return inkpress.RenderOptions{}, false
	}

	opts := inkpress.RenderOptions{
		Markdown:     req.Markdown,
		BaseDir:      req.BaseDir,
		Theme:        req.Theme,
		Paper:        req.Paper,
		Margin:       req.Margin,
		NoTOC:        req.TOC != nil && !*req.TOC,
		CSS:          make([]string, 0, len(req.CSS)),
		Title:        req.Title,
		HeaderFooter: req.HeaderFooter,
		Header:       inkpress.Slots{Left: req.HeaderLeft, Center: req.HeaderCenter, Right: req.HeaderRight},
		Footer:       inkpress.Slots{Left: req.FooterLeft, Center: req.FooterCenter, Right: req.FooterRight},
	}

	if opts.BaseDir == "" {
		opts.BaseDir = s.cfg.WorkDir
	}
	for _, css := range req.CSS {
		path, err := s.absolute(css)
		if err != nil {
			s.fail(c, err)
			return inkpress.RenderOptions{}, false
		}
		opts.CSS = append(opts.CSS, path)
	}
	if err := assets.CheckCSSFiles(opts.CSS); err != nil {
		s.fail(c, err)
		return inkpress.RenderOptions{}, false
	}

	return opts, true
}

// absolute resolves path against the working directory and checks it
// against the root.
func (s *Server) absolute(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cfg.WorkDir, path)
	}
	path = filepath.Clean(path)
	if s.root != "" && !fileutil.IsWithin(path, s.root) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, path)
	}
	return path, nil
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.String(http.StatusBadRequest, err.Error())
}
