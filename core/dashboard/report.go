package dashboard

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/rollcall/core"
	"github.com/trezcool/rollcall/core/attendance"
)

const reportTemplate = "attendance_report"

var ErrNoRecipients = errors.New("no report recipients")

// Report is the attendance summary of one section.
type Report struct {
	Section  string                     `json:"section"`
	Date     string                     `json:"date"`
	Stats    attendance.AggregateStats  `json:"stats"`
	Students []attendance.StudentRecord `json:"students"`
}

func (d *Dashboard) Report(ctx context.Context, section string) (Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	records, err := d.attSvc.QueryAll(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "querying students")
	}
	return Report{
		Section:  section,
		Date:     nowFunc().In(d.loc).Format(dateLayout),
		Stats:    attendance.Aggregate(records, section),
		Students: attendance.SelectView(records, section, attendance.FilterAll, ""),
	}, nil
}

// SendReport e-mails the report of `section` to `to`.
func (d *Dashboard) SendReport(ctx context.Context, mailer core.EmailService, section string, to ...mail.Address) error {
	if len(to) == 0 {
		return core.NewValidationError(ErrNoRecipients, core.FieldError{Field: "to", Error: ErrNoRecipients.Error()})
	}
	rep, err := d.Report(ctx, section)
	if err != nil {
		return err
	}
	mailer.SendMessages(&core.EmailMessage{
		To:           to,
		Subject:      "Attendance report " + section + " - " + rep.Date,
		TemplateName: reportTemplate,
		TemplateData: rep,
	})
	return nil
}
