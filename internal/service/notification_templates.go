package service

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/nutratech/prf-api/internal/models"
)

var mailFuncs = template.FuncMap{
	"fmtDate": func(d interface{ Format(string) string }) string {
		return d.Format("January 2, 2006")
	},
}

const assignmentBody = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h2 style="color: #333;">Purchase Request Form Needs Your {{.RoleVerb}}</h2>
  <p>Good Day!</p>
  <p>You have been assigned to <strong>{{.RoleVerb}}</strong> a Purchase Request Form.</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>PRF Number:</strong> {{.Data.PrfNo}}</p>
    <p><strong>Date:</strong> {{fmtDate .Data.PrfDate}}</p>
    <p><strong>Prepared By:</strong> {{.Data.PreparedBy}}</p>
    <p><strong>Department Charge to:</strong> {{.Data.DepartmentCharge}}</p>
    <p><strong>Company:</strong> {{.Data.Company}}</p>
    <p><strong>Checked By:</strong> {{.Data.CheckedBy}}</p>
    <p><strong>Approved By:</strong> {{.Data.ApprovedBy}}</p>
    <p><strong>Received By:</strong> {{.Data.ReceivedBy}}</p>
  </div>
  <div style="text-align:center; margin: 25px 0;">
    <a href="{{.Data.AppURL}}/?prfId={{.Data.PrfID}}&assignedAction={{.Action}}"
       style="display: inline-block; background-color: #0078D7; color: #ffffff; padding: 12px 25px; text-decoration: none; border-radius: 5px; font-weight: bold;">Proceed</a>
  </div>
  <p>Thank you,<br>{{.Data.Company}} Purchase System</p>
</div>`

const progressBody = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h2 style="color: #27AE60;">Your PRF has been {{.Headline}}</h2>
  <p>Good Day {{.Data.PreparedBy}}!</p>
  <p>Your Purchase Request Form has been <strong>{{.Headline}}</strong>. {{.NextLine}}</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>PRF Number:</strong> {{.Data.PrfNo}}</p>
    <p><strong>Status:</strong> {{.StatusLine}}</p>
    {{if .Data.CheckedBy}}<p><strong>Checked By:</strong> {{.Data.CheckedBy}}</p>{{end}}
    {{if .Data.ApprovedBy}}<p><strong>Approved By:</strong> {{.Data.ApprovedBy}}</p>{{end}}
    {{if .Data.ReceivedBy}}<p><strong>Received By:</strong> {{.Data.ReceivedBy}}</p>{{end}}
  </div>
  <p>Thank you,<br>{{.Data.Company}} Purchase System</p>
</div>`

const rejectedBody = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h2 style="color: #C0392B;">Your PRF has been Rejected</h2>
  <p>Good Day {{.Data.PreparedBy}},</p>
  <p>Unfortunately, your Purchase Request Form has been <strong>rejected</strong> and requires your attention.</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-left: 4px solid #E74C3C; border-radius: 5px; margin: 20px 0;">
    <p><strong>PRF Number:</strong> {{.Data.PrfNo}}</p>
    <p><strong>Rejected By:</strong> {{.Data.RejectedBy}}</p>
    <p><strong>Reason:</strong> {{.Data.RejectionReason}}</p>
  </div>
  <p>Best regards,<br>{{.Data.Company}} Purchase Requisition System</p>
</div>`

const deliveredBody = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h2 style="color: #1B9E3A;">{{.Data.StockName}} Successfully Delivered</h2>
  <p>Hello <strong>{{.Data.PreparedBy}}</strong>,</p>
  <p>Your Purchase Request Form item <strong>{{.Data.StockName}}</strong> has been successfully delivered.</p>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>PRF Number:</strong> {{.Data.PrfNo}}</p>
    <p><strong>Item:</strong> {{.Data.StockName}}</p>
  </div>
  <p>Best regards,<br>{{.Data.Company}} Procurement Team</p>
</div>`

const stockBody = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h2 style="color: {{.Color}};">Stock {{.Headline}}</h2>
  <p>Good Day {{.Data.PreparedBy}},</p>
  <p>The stock check for <strong>{{.Data.StockName}}</strong> on PRF <strong>{{.Data.PrfNo}}</strong> is done: the item is <strong>{{.Headline}}</strong>.</p>
  {{if .Data.RejectionReason}}<p><strong>Remarks:</strong> {{.Data.RejectionReason}}</p>{{end}}
  <p>Thank you,<br>{{.Data.Company}} Purchase System</p>
</div>`

var (
	assignmentTmpl = template.Must(template.New("assignment").Funcs(mailFuncs).Parse(assignmentBody))
	progressTmpl   = template.Must(template.New("progress").Funcs(mailFuncs).Parse(progressBody))
	rejectedTmpl   = template.Must(template.New("rejected").Funcs(mailFuncs).Parse(rejectedBody))
	deliveredTmpl  = template.Must(template.New("delivered").Funcs(mailFuncs).Parse(deliveredBody))
	stockTmpl      = template.Must(template.New("stock").Funcs(mailFuncs).Parse(stockBody))
)

type assignmentView struct {
	Data     models.NotificationData
	RoleVerb string
	Action   string
}

type progressView struct {
	Data       models.NotificationData
	Headline   string
	StatusLine string
	NextLine   string
}

type dataView struct {
	Data models.NotificationData
}

type stockView struct {
	Data     models.NotificationData
	Headline string
	Color    string
}

// renderMail maps an event to its subject and HTML body. The switch is
// exhaustive over NotificationEvent; an unknown event is a programming error.
func renderMail(event models.NotificationEvent, data models.NotificationData) (subject, body string, err error) {
	var sb strings.Builder

	switch event {
	case models.EventAssignedToCheck:
		subject = fmt.Sprintf("[Notification] You are assigned to check PRF #%s", data.PrfNo)
		err = assignmentTmpl.Execute(&sb, assignmentView{Data: data, RoleVerb: "check", Action: "check"})
	case models.EventAssignedToApprove:
		subject = fmt.Sprintf("[Notification] You are assigned to approve PRF #%s", data.PrfNo)
		err = assignmentTmpl.Execute(&sb, assignmentView{Data: data, RoleVerb: "approve", Action: "approve"})
	case models.EventAssignedToReceive:
		subject = fmt.Sprintf("[Notification] You are assigned to receive PRF #%s", data.PrfNo)
		err = assignmentTmpl.Execute(&sb, assignmentView{Data: data, RoleVerb: "receive", Action: "receive"})
	case models.EventPrfChecked:
		subject = fmt.Sprintf("[Update] Your PRF #%s has been checked", data.PrfNo)
		err = progressTmpl.Execute(&sb, progressView{
			Data:       data,
			Headline:   "Checked",
			StatusLine: "Checked - Pending Approval",
			NextLine:   fmt.Sprintf("It is now awaiting approval by %s.", orNA(data.ApprovedBy)),
		})
	case models.EventPrfApproved:
		subject = fmt.Sprintf("[Update] Your PRF #%s has been approved", data.PrfNo)
		err = progressTmpl.Execute(&sb, progressView{
			Data:       data,
			Headline:   "Approved",
			StatusLine: "Approved - Pending Receipt",
			NextLine:   fmt.Sprintf("It is now awaiting receipt by %s.", orNA(data.ReceivedBy)),
		})
	case models.EventPrfReceived:
		subject = fmt.Sprintf("[Complete] Your PRF #%s has been received", data.PrfNo)
		err = progressTmpl.Execute(&sb, progressView{
			Data:       data,
			Headline:   "Received",
			StatusLine: "Complete",
			NextLine:   "The process is now complete.",
		})
	case models.EventPrfRejected:
		subject = fmt.Sprintf("[Action Required] Your PRF #%s has been rejected - Please review", data.PrfNo)
		err = rejectedTmpl.Execute(&sb, dataView{Data: data})
	case models.EventPrfDelivered:
		subject = fmt.Sprintf("%s Successfully Delivered - PRF #%s", data.StockName, data.PrfNo)
		err = deliveredTmpl.Execute(&sb, dataView{Data: data})
	case models.EventStockAvailable:
		subject = fmt.Sprintf("[Stock Check] %s is available - PRF #%s", data.StockName, data.PrfNo)
		err = stockTmpl.Execute(&sb, stockView{Data: data, Headline: "Available", Color: "#27AE60"})
	case models.EventStockNotAvailable:
		subject = fmt.Sprintf("[Stock Check] %s is not available - PRF #%s", data.StockName, data.PrfNo)
		err = stockTmpl.Execute(&sb, stockView{Data: data, Headline: "Not Available", Color: "#C0392B"})
	default:
		return "", "", fmt.Errorf("unknown notification event: %s", event)
	}

	if err != nil {
		return "", "", fmt.Errorf("render %s template: %w", event, err)
	}
	return subject, sb.String(), nil
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
