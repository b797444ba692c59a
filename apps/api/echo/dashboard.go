package echoapi

import (
	"bytes"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/attendance"
	"github.com/trezcool/rollcall/core/dashboard"
)

const mimeImageSVG = "image/svg+xml"

var viewPaths = map[dashboard.View]string{
	dashboard.ViewHome:       "/",
	dashboard.ViewAttendance: "/attendance",
	dashboard.ViewReports:    "/reports",
	dashboard.ViewSettings:   "/settings",
}

var viewTitles = map[dashboard.View]string{
	dashboard.ViewHome:       "Dashboard",
	dashboard.ViewAttendance: "Attendance",
	dashboard.ViewReports:    "Reports",
	dashboard.ViewSettings:   "Settings",
}

type (
	dashboardApi struct {
		conf       *core.Config
		logger     core.Logger
		dash       *dashboard.Dashboard
		mailer     core.EmailService
		validate   *validator.Validate
		translator ut.Translator
	}

	navItem struct {
		Path   string
		Label  string
		Active bool
	}

	chartRef struct {
		Name    dashboard.ChartName
		Title   string
		URL     string
		Width   int
		Height  int
		Periods []string
		Period  string
	}

	pageData struct {
		AppName    string
		Title      string
		Nav        []navItem
		Screen     dashboard.Screen
		ShowFilter bool
		Filters    []attendance.StatusFilter
		Charts     []chartRef
	}
)

func registerDashboardAPI(app *echo.Echo, api *dashboardApi) {
	for _, v := range dashboard.AllViews {
		app.GET(viewPaths[v], api.viewHandler(v))
	}

	vg := app.Group("/views/:view")
	vg.POST("/filter", api.setFilter)
	vg.POST("/search", api.setSearch)
	vg.POST("/section", api.setSection)

	sg := app.Group("/students/:id")
	sg.POST("/status", api.setStatus)
	sg.POST("/note", api.editNote)

	app.POST("/preferences/dark-mode", api.setDarkMode)
	app.POST("/reports/send", api.sendReport)
	app.GET("/charts/:name", api.chart)
}

// respond answers an action: the screen of `view` as JSON, or a redirect to its page.
func (api *dashboardApi) respond(ctx echo.Context, view dashboard.View) error {
	if wantsJSON(ctx) {
		scr, err := api.dash.Screen(ctx.Request().Context(), view)
		if err != nil {
			return errors.Wrap(err, "getting screen")
		}
		return ctx.JSON(http.StatusOK, scr)
	}
	return ctx.Redirect(http.StatusSeeOther, viewPaths[view])
}

func (api *dashboardApi) pathView(ctx echo.Context) (dashboard.View, error) {
	view, err := dashboard.ParseView(ctx.Param("view"))
	if err != nil {
		return "", errHttpNotFound
	}
	return view, nil
}

// Handlers

func (api *dashboardApi) viewHandler(view dashboard.View) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		scr, err := api.dash.Screen(ctx.Request().Context(), view)
		if err != nil {
			return errors.Wrap(err, "getting screen")
		}
		if wantsJSON(ctx) {
			return ctx.JSON(http.StatusOK, scr)
		}

		data := pageData{
			AppName:    api.conf.AppName,
			Title:      viewTitles[view],
			Screen:     scr,
			ShowFilter: view == dashboard.ViewHome,
			Filters:    attendance.AllFilters,
		}
		for _, v := range dashboard.AllViews {
			data.Nav = append(data.Nav, navItem{Path: viewPaths[v], Label: viewTitles[v], Active: v == view})
		}
		width, height := api.dash.ChartSize()
		for _, name := range scr.Charts {
			spec, err := api.dash.ChartSpec(name, ctx.QueryParam(string(name)))
			if err != nil {
				return err
			}
			ref := chartRef{Name: name, Title: spec.Title, Width: width, Height: height, Periods: name.Periods()}
			q := make(url.Values)
			if ref.Periods != nil {
				ref.Period = ctx.QueryParam(string(name))
				if ref.Period == "" {
					ref.Period = attendance.PeriodCurrent
				}
				q.Set("period", ref.Period)
			}
			ref.URL = "/charts/" + string(name)
			if len(q) > 0 {
				ref.URL += "?" + q.Encode()
			}
			data.Charts = append(data.Charts, ref)
		}
		return ctx.Render(http.StatusOK, string(view), data)
	}
}

func (api *dashboardApi) setFilter(ctx echo.Context) error {
	view, err := api.pathView(ctx)
	if err != nil {
		return err
	}
	var data FilterRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FilterRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if err = api.dash.SetFilter(ctx.Request().Context(), view, attendance.StatusFilter(data.Status)); err != nil {
		return errors.Wrap(err, "setting filter")
	}
	return api.respond(ctx, view)
}

func (api *dashboardApi) setSearch(ctx echo.Context) error {
	view, err := api.pathView(ctx)
	if err != nil {
		return err
	}
	var data SearchRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SearchRequest")
	}

	if err = api.dash.SetSearch(ctx.Request().Context(), view, data.Search); err != nil {
		return errors.Wrap(err, "setting search")
	}
	return api.respond(ctx, view)
}

func (api *dashboardApi) setSection(ctx echo.Context) error {
	view, err := api.pathView(ctx)
	if err != nil {
		return err
	}
	var data SectionRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SectionRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if err = api.dash.SetSection(ctx.Request().Context(), view, data.Section); err != nil {
		return errors.Wrap(err, "setting section")
	}
	return api.respond(ctx, view)
}

func (api *dashboardApi) setStatus(ctx echo.Context) error {
	var data StatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	view := viewParam(data.View)

	id, ok := idParam(ctx)
	if !ok { // unknown student: nothing to do
		api.logger.Debug("set status: invalid student id", ctx.Param("id"))
		return api.respond(ctx, view)
	}
	err := api.dash.Trigger(ctx.Request().Context(), view, id, attendance.ActionStatus, attendance.Status(data.Status))
	if err != nil {
		return errors.Wrap(err, "setting status")
	}
	return api.respond(ctx, view)
}

func (api *dashboardApi) editNote(ctx echo.Context) error {
	var data NoteRequest
	if err := data.Bind(ctx); err != nil {
		return errors.Wrap(err, "binding to NoteRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	view := dashboard.ViewAttendance
	if data.View != "" {
		view = viewParam(data.View)
	}

	id, ok := idParam(ctx)
	if !ok {
		api.logger.Debug("edit note: invalid student id", ctx.Param("id"))
		return api.respond(ctx, view)
	}
	reqCtx := dashboard.WithPrompter(ctx.Request().Context(), &data)
	if err := api.dash.Trigger(reqCtx, view, id, attendance.ActionNote, ""); err != nil {
		return errors.Wrap(err, "editing note")
	}
	return api.respond(ctx, view)
}

func (api *dashboardApi) setDarkMode(ctx echo.Context) error {
	var data DarkModeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DarkModeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	var err error
	if enabled, ok := data.Value(); ok {
		_, err = api.dash.SetDarkMode(ctx.Request().Context(), enabled)
	} else {
		_, err = api.dash.ToggleDarkMode(ctx.Request().Context())
	}
	if err != nil {
		return errors.Wrap(err, "setting dark mode")
	}
	return api.respond(ctx, viewParam(data.View))
}

func (api *dashboardApi) sendReport(ctx echo.Context) error {
	var data ReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReportRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	recipients := data.To
	if len(recipients) == 0 {
		recipients = api.conf.Mail.ReportRecipients
	}
	to := make([]mail.Address, 0, len(recipients))
	for _, r := range recipients {
		addr, err := mail.ParseAddress(r)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "to", Error: "invalid email address: " + r})
		}
		to = append(to, *addr)
	}

	if err := api.dash.SendReport(ctx.Request().Context(), api.mailer, data.Section, to...); err != nil {
		return errors.Wrap(err, "sending report")
	}
	if wantsJSON(ctx) {
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Report sent for section " + data.Section})
	}
	return ctx.Redirect(http.StatusSeeOther, viewPaths[dashboard.ViewReports])
}

func (api *dashboardApi) chart(ctx echo.Context) error {
	name, err := dashboard.ParseChartName(ctx.Param("name"))
	if err != nil {
		return errHttpNotFound
	}
	width, _ := strconv.Atoi(ctx.QueryParam("width"))
	height, _ := strconv.Atoi(ctx.QueryParam("height"))
	api.dash.Resize(width, height)

	period := ctx.QueryParam("period")
	if wantsJSON(ctx) {
		spec, err := api.dash.ChartSpec(name, period)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, spec)
	}

	var buf bytes.Buffer
	if err = api.dash.RenderChart(ctx.Request().Context(), &buf, name, period); err != nil {
		return err
	}
	return ctx.Blob(http.StatusOK, mimeImageSVG, buf.Bytes())
}
