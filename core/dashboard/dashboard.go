package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/attendance"
	"github.com/trezcool/rollcall/core/preference"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidFilter = errors.New("invalid status filter")

	// mockable
	nowFunc = time.Now
)

type (
	Deps struct {
		Attendance  *attendance.Service
		Preferences *preference.Service
		Charts      core.ChartRenderer
		History     attendance.History
		Logger      core.Logger
	}

	Options struct {
		DefaultSection string
		Location       *time.Location
		ChartWidth     int
		ChartHeight    int
	}

	// Dashboard is the application shell. It owns the explicit state of every list view and
	// serialises all actions: each one mutates, re-renders & re-aggregates before the next starts.
	Dashboard struct {
		mu sync.Mutex

		attSvc  *attendance.Service
		prefSvc *preference.Service
		charts  core.ChartRenderer
		history attendance.History
		logger  core.Logger
		loc     *time.Location

		states  map[View]*attendance.ViewState
		screens map[View]*Screen // last render of each list view
		dark    bool
		notice  string

		chartWidth  int
		chartHeight int
	}
)

// New builds the dashboard: the dark-mode flag is read once, then every list view is rendered.
func New(ctx context.Context, deps Deps, opts Options) (*Dashboard, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	d := &Dashboard{
		attSvc:      deps.Attendance,
		prefSvc:     deps.Preferences,
		charts:      deps.Charts,
		history:     deps.History,
		logger:      deps.Logger,
		loc:         opts.Location,
		states:      make(map[View]*attendance.ViewState, len(ListViews)),
		screens:     make(map[View]*Screen, len(ListViews)),
		chartWidth:  opts.ChartWidth,
		chartHeight: opts.ChartHeight,
	}

	section := opts.DefaultSection
	if section == "" {
		sections, err := d.attSvc.Sections(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "listing sections")
		}
		if len(sections) > 0 {
			section = sections[0]
		}
	}
	for _, v := range ListViews {
		d.states[v] = &attendance.ViewState{Status: attendance.FilterAll, Section: section}
	}

	dark, err := d.prefSvc.DarkMode(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading dark mode")
	}
	d.dark = dark

	d.mu.Lock()
	defer d.mu.Unlock()
	if err = d.renderAll(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// render recomputes the view from its explicit state, with fresh row bindings. d.mu must be held.
func (d *Dashboard) render(ctx context.Context, view View) error {
	state, ok := d.states[view]
	if !ok {
		return nil
	}

	records, err := d.attSvc.QueryAll(ctx)
	if err != nil {
		return errors.Wrapf(err, "rendering %s", view)
	}
	rows := attendance.Render(state.Select(records), view.Mode(), binder{d: d})
	stats := attendance.Aggregate(records, state.Section)
	st := *state

	d.screens[view] = &Screen{
		View:     view,
		Sections: attendance.Sections(records),
		State:    &st,
		Rows:     rows,
		Empty:    len(rows) == 0,
		Stats:    &stats,
		Charts:   view.Charts(),
	}
	return nil
}

// renderAll re-renders every list view with its current state. d.mu must be held.
func (d *Dashboard) renderAll(ctx context.Context) error {
	for _, v := range ListViews {
		if err := d.render(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// Screen returns the current rendering of `view`. A pending notice is delivered once.
func (d *Dashboard) Screen(ctx context.Context, view View) (Screen, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var scr Screen
	if cached, ok := d.screens[view]; ok {
		scr = *cached
	} else {
		records, err := d.attSvc.QueryAll(ctx)
		if err != nil {
			return Screen{}, errors.Wrapf(err, "rendering %s", view)
		}
		scr = Screen{View: view, Sections: attendance.Sections(records), Charts: view.Charts()}
	}
	scr.Date = nowFunc().In(d.loc).Format(dateLayout)
	scr.DarkMode = d.dark
	scr.Notice, d.notice = d.notice, ""
	return scr, nil
}

// State returns the explicit state of a list view.
func (d *Dashboard) State(view View) (attendance.ViewState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state, ok := d.states[view]
	if !ok {
		return attendance.ViewState{}, false
	}
	return *state, true
}

// update applies `fn` to the state of `view` and re-renders it. Views without a list are ignored.
func (d *Dashboard) update(ctx context.Context, view View, fn func(*attendance.ViewState)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	state, ok := d.states[view]
	if !ok {
		return nil
	}
	fn(state)
	return d.render(ctx, view)
}

// SetFilter sets the status filter of `view`.
func (d *Dashboard) SetFilter(ctx context.Context, view View, filter attendance.StatusFilter) error {
	if !filter.Valid() {
		return errors.Wrapf(ErrInvalidFilter, "%q", filter)
	}
	return d.update(ctx, view, func(vs *attendance.ViewState) { vs.Status = filter })
}

// SetSearch sets the search term of `view`, as typed.
func (d *Dashboard) SetSearch(ctx context.Context, view View, term string) error {
	return d.update(ctx, view, func(vs *attendance.ViewState) { vs.Search = term })
}

// SetSection sets the section of `view`; its stats follow the new section.
func (d *Dashboard) SetSection(ctx context.Context, view View, section string) error {
	return d.update(ctx, view, func(vs *attendance.ViewState) { vs.Section = section })
}

// SetStatus sets the status of student `id`, then re-renders every list view.
// An unknown id leaves the roster untouched and is not an error.
func (d *Dashboard) SetStatus(ctx context.Context, id int, st attendance.Status) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setStatus(ctx, id, st)
}

func (d *Dashboard) setStatus(ctx context.Context, id int, st attendance.Status) error {
	_, found, err := d.attSvc.SetStatus(ctx, id, st)
	if err != nil {
		return errors.Wrapf(err, "setting status of student %d", id)
	}
	if !found {
		d.logger.Debug("set status: student not found", map[string]interface{}{"id": id, "status": st})
		return nil
	}
	return d.renderAll(ctx)
}

// SetNote sets the note of student `id`; an empty note is kept as such.
// An unknown id is ignored.
func (d *Dashboard) SetNote(ctx context.Context, id int, note string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, found, err := d.attSvc.SetNote(ctx, id, note)
	if err != nil {
		return errors.Wrapf(err, "setting note of student %d", id)
	}
	if !found {
		d.logger.Debug("set note: student not found", map[string]interface{}{"id": id})
		return nil
	}
	d.notice = noteSavedText(rec.Name)
	return d.renderAll(ctx)
}

// EditNote asks `p` for the note of student `id`, defaulting to the current one.
// A cancelled prompt changes nothing.
func (d *Dashboard) EditNote(ctx context.Context, id int, p Prompter) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editNote(ctx, id, p)
}

func (d *Dashboard) editNote(ctx context.Context, id int, p Prompter) error {
	rec, err := d.attSvc.GetByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			d.logger.Debug("edit note: student not found", map[string]interface{}{"id": id})
			return nil
		}
		return errors.Wrapf(err, "getting student %d", id)
	}
	if p == nil {
		return nil
	}

	note, ok := p.Prompt(notePromptText(rec.Name), rec.Note.String)
	if !ok {
		return nil
	}
	if _, _, err = d.attSvc.SetNote(ctx, id, note); err != nil {
		return errors.Wrapf(err, "setting note of student %d", id)
	}
	d.notice = noteSavedText(rec.Name)
	return d.renderAll(ctx)
}

// Trigger runs the action bound to row `id` of the current rendering of `view`.
// A row that is not displayed falls back to the action by id.
func (d *Dashboard) Trigger(ctx context.Context, view View, id int, kind attendance.ActionKind, st attendance.Status) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if act, ok := d.boundAction(view, id, kind, st); ok {
		return act.Handle(ctx)
	}
	switch kind {
	case attendance.ActionStatus:
		return d.setStatus(ctx, id, st)
	case attendance.ActionNote:
		return d.editNote(ctx, id, PrompterFrom(ctx))
	}
	return nil
}

// boundAction finds a live binding in the last rendering of `view`. d.mu must be held.
func (d *Dashboard) boundAction(view View, id int, kind attendance.ActionKind, st attendance.Status) (attendance.Action, bool) {
	scr, ok := d.screens[view]
	if !ok {
		return attendance.Action{}, false
	}
	for _, row := range scr.Rows {
		if row.ID != id {
			continue
		}
		if kind == attendance.ActionNote && row.NoteAction != nil && row.NoteAction.Handle != nil {
			return *row.NoteAction, true
		}
		for _, act := range row.Actions {
			if act.Kind == kind && act.Status == st && act.Handle != nil {
				return act, true
			}
		}
	}
	return attendance.Action{}, false
}

// DarkMode reports the current theme.
func (d *Dashboard) DarkMode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dark
}

// ToggleDarkMode flips the theme and stores it. Charts drawn afterwards use the new theme.
func (d *Dashboard) ToggleDarkMode(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.toggleDarkMode(ctx)
}

func (d *Dashboard) toggleDarkMode(ctx context.Context) (bool, error) {
	if err := d.prefSvc.SaveDarkMode(ctx, !d.dark); err != nil {
		return d.dark, err
	}
	d.dark = !d.dark
	return d.dark, nil
}

// SetDarkMode toggles the theme only when it differs from `enabled`.
func (d *Dashboard) SetDarkMode(ctx context.Context, enabled bool) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dark == enabled {
		return d.dark, nil
	}
	return d.toggleDarkMode(ctx)
}

func notePromptText(name string) string { return fmt.Sprintf("Add a note for %s:", name) }
func noteSavedText(name string) string  { return fmt.Sprintf("Note saved for %s", name) }

// binder binds row actions to the dashboard. Its actions run with d.mu held.
type binder struct {
	d *Dashboard
}

func (b binder) StatusAction(id int, st attendance.Status) attendance.ActionFunc {
	return func(ctx context.Context) error {
		return b.d.setStatus(ctx, id, st)
	}
}

func (b binder) NoteAction(id int) attendance.ActionFunc {
	return func(ctx context.Context) error {
		return b.d.editNote(ctx, id, PrompterFrom(ctx))
	}
}
