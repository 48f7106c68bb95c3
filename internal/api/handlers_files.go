package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/arthur-theuer/signaleditor/internal/parser"
	"github.com/arthur-theuer/signaleditor/internal/route"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
)

type authRequest struct {
	PIN string `json:"pin" validate:"required"`
}

func (a *authRequest) Bind(r *http.Request) error { return nil }

// handleAuth lets the editor check a PIN before using it as bearer token.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	data := &authRequest{}
	if !s.validator.bind(w, r, data) {
		return
	}
	if !validPIN(data.PIN, s.cfg.EditorPIN) {
		render.Render(w, r, ErrUnauthorized(errInvalidPIN))
		return
	}
	render.JSON(w, r, map[string]any{"ok": true})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.List(r.Context())
	if err != nil {
		render.Render(w, r, ErrStore(err))
		return
	}
	if files == nil {
		files = []routestore.FileInfo{}
	}
	render.JSON(w, r, map[string]any{"files": files})
}

type createFileRequest struct {
	Name string        `json:"name" validate:"required,max=200"`
	Type route.DocType `json:"typ" validate:"omitempty,oneof=video strecke"`
}

func (c *createFileRequest) Bind(r *http.Request) error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	c.Name = routestore.SanitizeName(c.Name)
	if filepath.Ext(c.Name) == "" {
		c.Name += ".yaml"
	}
	return nil
}

// handleCreateFile creates an empty route document. Existing files are
// never overwritten.
func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	data := &createFileRequest{}
	if !s.validator.bind(w, r, data) {
		return
	}

	ctx := r.Context()
	_, err := s.store.Fetch(ctx, data.Name)
	switch {
	case err == nil:
		render.Render(w, r, ErrConflict(fmt.Errorf("file %s already exists", data.Name)))
		return
	case !errors.Is(err, routestore.ErrNotFound):
		render.Render(w, r, ErrStore(err))
		return
	}

	doc := route.NewVideo()
	if data.Type == route.TypeRoute {
		doc = route.NewRoute()
	}
	var buf bytes.Buffer
	if err := parser.Encode(&buf, doc); err != nil {
		render.Render(w, r, ErrInternalServerErrorRend(err))
		return
	}
	if err := s.store.Save(ctx, data.Name, buf.Bytes()); err != nil {
		render.Render(w, r, ErrStore(err))
		return
	}
	s.resolver.Invalidate(data.Name)
	s.log.Info("file created", "file", data.Name)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{"name": data.Name})
}

// fileName reads and checks the {name} URL parameter.
func fileName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if !routestore.ValidName(name) || routestore.SanitizeName(name) != name {
		return "", fmt.Errorf("%w: %q", routestore.ErrInvalidName, name)
	}
	return name, nil
}

// handleGetFile returns the parsed document, or the stored bytes with
// ?raw=1.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	name, err := fileName(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if r.URL.Query().Get("raw") != "" {
		data, err := s.store.Fetch(r.Context(), name)
		if err != nil {
			render.Render(w, r, ErrStore(err))
			return
		}
		w.Header().Set("Content-Type", "text/yaml; charset=utf-8")
		w.Write(data)
		return
	}

	doc, err := s.resolver.Document(r.Context(), name)
	if err != nil {
		if errors.Is(err, routestore.ErrNotFound) || routestore.IsRetryable(err) {
			render.Render(w, r, ErrStore(err))
			return
		}
		render.Render(w, r, ErrUnprocessable(err))
		return
	}
	render.JSON(w, r, documentBody{Name: name, Meta: doc.Meta, Entries: doc.Entries})
}

type documentBody struct {
	Name    string        `json:"name,omitempty"`
	Meta    route.Meta    `json:"meta"`
	Entries route.Entries `json:"entries"`
}

func (d *documentBody) Bind(r *http.Request) error {
	if d.Meta.Type == "" {
		d.Meta.Type = route.TypeVideo
	}
	return nil
}

// handlePutFile stores a document. A JSON body {meta, entries} is encoded
// to the route file format; any other body is stored as sent after it
// parses.
func (s *Server) handlePutFile(w http.ResponseWriter, r *http.Request) {
	name, err := fileName(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	p := parser.ForFile(name)

	var content []byte
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if _, ok := p.(*parser.TextParser); !ok {
			render.Render(w, r, ErrInvalidRequest(errors.New("documents can only be written as text files")))
			return
		}
		data := &documentBody{}
		if !s.validator.bind(w, r, data) {
			return
		}
		var buf bytes.Buffer
		if err := parser.Encode(&buf, &route.Document{Meta: data.Meta, Entries: data.Entries}); err != nil {
			render.Render(w, r, ErrInternalServerErrorRend(err))
			return
		}
		content = buf.Bytes()
	} else {
		content, err = io.ReadAll(r.Body)
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
		if _, err := p.Parse(bytes.NewReader(content), name); err != nil {
			render.Render(w, r, ErrUnprocessable(err))
			return
		}
	}

	if err := s.store.Save(r.Context(), name, content); err != nil {
		render.Render(w, r, ErrStore(err))
		return
	}
	s.resolver.Invalidate(name)
	s.log.Info("file saved", "file", name, "bytes", len(content))

	render.JSON(w, r, map[string]any{"name": name, "size": len(content)})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	name, err := fileName(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := s.store.Delete(r.Context(), name); err != nil {
		render.Render(w, r, ErrStore(err))
		return
	}
	s.resolver.Invalidate(name)
	s.log.Info("file deleted", "file", name)
	w.WriteHeader(http.StatusNoContent)
}
