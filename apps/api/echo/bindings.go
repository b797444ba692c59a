package echoapi

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/dashboard"
)

type (
	FilterRequest struct {
		Status string `json:"status" form:"status" validate:"required,attfilter"`
	}

	SearchRequest struct {
		Search string `json:"search" form:"search"`
	}

	SectionRequest struct {
		Section string `json:"section" form:"section" validate:"required,notblank"`
	}

	StatusRequest struct {
		Status string `json:"status" form:"status" validate:"required,attstatus"`
		View   string `json:"view" form:"view" validate:"omitempty,dashview"`
	}

	// NoteRequest is a prompt answer: a missing note, or cancel, means the prompt was dismissed.
	NoteRequest struct {
		Note   *string `json:"note"`
		Cancel bool    `json:"cancel"`
		View   string  `json:"view" validate:"omitempty,dashview"`
	}

	DarkModeRequest struct {
		Enabled string `json:"enabled" form:"enabled" validate:"omitempty,oneof=true false on off 1 0"`
		View    string `json:"view" form:"view" validate:"omitempty,dashview"`
	}

	ReportRequest struct {
		Section string   `json:"section" form:"section" validate:"required,notblank"`
		To      []string `json:"to" form:"to" validate:"omitempty,dive,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (r *FilterRequest) Validate(validate *validator.Validate) error {
	r.Status = core.CleanString(r.Status, true /* lower */)
	return validate.Struct(r)
}

func (r *SectionRequest) Validate(validate *validator.Validate) error {
	r.Section = core.CleanString(r.Section)
	return validate.Struct(r)
}

func (r *StatusRequest) Validate(validate *validator.Validate) error {
	r.Status = core.CleanString(r.Status, true /* lower */)
	r.View = core.CleanString(r.View, true /* lower */)
	return validate.Struct(r)
}

// Bind reads the answer from a JSON body or from the form fields `note` & `cancel`.
func (r *NoteRequest) Bind(ctx echo.Context) error {
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return ctx.Bind(r)
	}

	params, err := ctx.FormParams()
	if err != nil {
		return errors.Wrap(err, "reading form")
	}
	if vals, ok := params["note"]; ok && len(vals) > 0 {
		note := vals[0]
		r.Note = &note
	}
	if vals, ok := params["cancel"]; ok && len(vals) > 0 {
		r.Cancel = vals[0] != "" && vals[0] != "false" && vals[0] != "0"
	}
	r.View = params.Get("view")
	return nil
}

func (r *NoteRequest) Validate(validate *validator.Validate) error {
	r.View = core.CleanString(r.View, true /* lower */)
	return validate.Struct(r)
}

// Prompt answers the note prompt with the request's note.
func (r *NoteRequest) Prompt(_, _ string) (string, bool) {
	if r.Cancel || r.Note == nil {
		return "", false
	}
	return *r.Note, true
}

func (r *DarkModeRequest) Validate(validate *validator.Validate) error {
	r.Enabled = core.CleanString(r.Enabled, true /* lower */)
	r.View = core.CleanString(r.View, true /* lower */)
	return validate.Struct(r)
}

// Value returns the requested state; ok is false when the request is a plain toggle.
func (r *DarkModeRequest) Value() (enabled, ok bool) {
	switch r.Enabled {
	case "":
		return false, false
	case "on":
		return true, true
	case "off":
		return false, true
	}
	enabled, err := strconv.ParseBool(r.Enabled)
	return enabled, err == nil
}

func (r *ReportRequest) Validate(validate *validator.Validate) error {
	r.Section = core.CleanString(r.Section)
	to := make([]string, 0, len(r.To))
	for _, addr := range r.To {
		if addr = core.CleanString(addr); addr != "" {
			to = append(to, addr)
		}
	}
	r.To = to
	return validate.Struct(r)
}

// viewParam reads the `view` the client came from; home when missing or unknown.
func viewParam(v string) dashboard.View {
	view, err := dashboard.ParseView(v)
	if err != nil {
		return dashboard.ViewHome
	}
	return view
}

// idParam parses the `:id` path param; ok is false when it is not a number.
func idParam(ctx echo.Context) (id int, ok bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	return id, err == nil
}

var _ dashboard.Prompter = (*NoteRequest)(nil)
