package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/arthur-theuer/signaleditor/internal/route"
	"github.com/arthur-theuer/signaleditor/internal/signal"
)

type classifyRequest struct {
	Name string `json:"name" validate:"required"`
}

func (c *classifyRequest) Bind(r *http.Request) error { return nil }

type classifyResponse struct {
	Secondary    bool            `json:"secondary"`
	Category     signal.Category `json:"category"`
	Base         string          `json:"base"`
	FreeText     string          `json:"free_text"`
	NeedsName    bool            `json:"needs_name"`
	NeedsStation bool            `json:"needs_station"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	data := &classifyRequest{}
	if !s.validator.bind(w, r, data) {
		return
	}

	secondary, category := signal.Classify(data.Name)
	base := signal.Base(data.Name)
	render.JSON(w, r, classifyResponse{
		Secondary:    secondary,
		Category:     category,
		Base:         base,
		FreeText:     signal.FreeText(data.Name),
		NeedsName:    signal.NeedsName(base),
		NeedsStation: signal.NeedsStation(base),
	})
}

type choicesRequest struct {
	Field    signal.Field  `json:"field" validate:"required,oneof=signal_1 signal_1b signal_2 signal_2b"`
	RowIndex int           `json:"row_index" validate:"gte=0"`
	Entries  route.Entries `json:"entries"`
}

func (c *choicesRequest) Bind(r *http.Request) error { return nil }

func (s *Server) handleChoices(w http.ResponseWriter, r *http.Request) {
	data := &choicesRequest{}
	if !s.validator.bind(w, r, data) {
		return
	}
	render.JSON(w, r, map[string]any{
		"choices": signal.ChoicesFor(data.Field, data.RowIndex, data.Entries),
	})
}

type autofillRequest struct {
	RowIndex      int           `json:"row_index" validate:"gte=0"`
	SourceIndex   *int          `json:"source_index" validate:"omitempty,gte=0"`
	TrackDistance bool          `json:"track_distance"`
	Entries       route.Entries `json:"entries" validate:"required,min=1"`
}

func (a *autofillRequest) Bind(r *http.Request) error {
	if a.RowIndex >= len(a.Entries) {
		return fmt.Errorf("row_index %d out of range (%d entries)", a.RowIndex, len(a.Entries))
	}
	return nil
}

func (s *Server) handleAutofill(w http.ResponseWriter, r *http.Request) {
	data := &autofillRequest{}
	if !s.validator.bind(w, r, data) {
		return
	}

	row, ok := data.Entries[data.RowIndex].(*route.Signal)
	if !ok {
		render.Render(w, r, ErrInvalidRequest(errors.New("row is not a signal row")))
		return
	}
	source := data.RowIndex - 1
	if data.SourceIndex != nil {
		source = *data.SourceIndex
	}
	if source >= 0 {
		signal.AutofillRow(row, source, data.Entries, data.TrackDistance)
	}

	entry, err := route.MarshalEntry(row)
	if err != nil {
		render.Render(w, r, ErrInternalServerErrorRend(err))
		return
	}
	render.JSON(w, r, map[string]any{"entry": json.RawMessage(entry)})
}
