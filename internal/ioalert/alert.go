// Package ioalert notifies the pipeline owner about failed tasks by
// e-mail. Without SMTP settings the alert goes to the log only.
package ioalert

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/agrietl/pkg/config"
	"github.com/gnames/agrietl/pkg/dag"
)

// implicitTLSPort is the SMTPS port, other ports use STARTTLS.
const implicitTLSPort = 465

// SendFunc has the signature of smtp.SendMail.
type SendFunc func(
	addr string,
	a smtp.Auth,
	from string,
	to []string,
	msg []byte,
) error

// Alerter implements lifecycle.Alerter.
type Alerter struct {
	cfg  config.AlertConfig
	send SendFunc
	now  func() time.Time
}

// Option configures an Alerter.
type Option func(*Alerter)

// OptSendFunc replaces the function that delivers messages.
func OptSendFunc(f SendFunc) Option {
	return func(a *Alerter) {
		if f != nil {
			a.send = f
		}
	}
}

// New creates an Alerter from alert settings.
func New(cfg config.AlertConfig, opts ...Option) *Alerter {
	res := &Alerter{cfg: cfg, now: time.Now}
	if cfg.SMTPPort == implicitTLSPort {
		res.send = sendMailTLS
	} else {
		res.send = smtp.SendMail
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Notify sends the failure alert. Delivery problems are logged and never
// returned, so they cannot hide the failure of the task.
func (a *Alerter) Notify(ctx context.Context, f dag.Failure) {
	slog.Error("Task failed",
		"dag", f.DagID,
		"task", f.TaskID,
		"run", f.RunID,
		"attempts", f.Attempts,
		"log", f.LogRef,
		"error", f.Err,
	)

	if !a.cfg.Enabled() {
		slog.Warn("E-mail alerts are not configured, alert is logged only")
		return
	}
	if ctx.Err() != nil {
		slog.Warn("Alert is not sent, context is done", "error", ctx.Err())
		return
	}

	if err := a.Send(f); err != nil {
		slog.Error("Cannot send alert", "error", err)
		return
	}
	slog.Info("Alert sent", "receivers", strings.Join(a.cfg.Receivers, ","))
}

// Send delivers the alert message to all receivers.
func (a *Alerter) Send(f dag.Failure) error {
	addr := net.JoinHostPort(a.cfg.SMTPHost, strconv.Itoa(a.cfg.SMTPPort))
	var auth smtp.Auth
	if a.cfg.Sender != "" && a.cfg.Password != "" {
		auth = smtp.PlainAuth("", a.cfg.Sender, a.cfg.Password, a.cfg.SMTPHost)
	}

	msg := Message(a.cfg.Sender, a.cfg.Receivers, f, a.now())
	err := a.send(addr, auth, a.cfg.Sender, a.cfg.Receivers, msg)
	if err != nil {
		return SendError(a.cfg.SMTPHost, a.cfg.SMTPPort, err)
	}
	return nil
}

// Subject returns the subject line of an alert.
func Subject(f dag.Failure) string {
	return fmt.Sprintf("[%s] task %s failed", f.DagID, f.TaskID)
}

// Message builds an RFC 5322 message with plain text body.
func Message(from string, to []string, f dag.Failure, date time.Time) []byte {
	owner := f.Owner
	if owner == "" {
		owner = "team"
	}
	logRef := f.LogRef
	if logRef == "" {
		logRef = "n/a"
	}
	var cause string
	if f.Err != nil {
		cause = f.Err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", Subject(f))
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Hey %s,\r\n\r\n", owner)
	fmt.Fprintf(&b, "The task %s in dag %s has failed for run %s at %s",
		f.TaskID, f.DagID, f.RunID, f.FailedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, " after %d attempts.\r\n\r\n", f.Attempts)
	fmt.Fprintf(&b, "Error: %s\r\n\r\n", cause)
	fmt.Fprintf(&b, "Here is the log: %s\r\n", logRef)
	return []byte(b.String())
}

// sendMailTLS is smtp.SendMail over an implicit TLS connection.
func sendMailTLS(
	addr string,
	a smtp.Auth,
	from string,
	to []string,
	msg []byte,
) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if a != nil {
		if err = c.Auth(a); err != nil {
			return err
		}
	}
	if err = c.Mail(from); err != nil {
		return err
	}
	for _, v := range to {
		if err = c.Rcpt(v); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
