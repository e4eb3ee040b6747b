package ioalert

import (
	"fmt"

	"github.com/gnames/agrietl/pkg/errcode"
	"github.com/gnames/gn"
)

func SendError(host string, port int, err error) error {
	msg := `Cannot send failure alert through <em>%s:%d</em>

<em>How to fix:</em>
  1. Check alert.smtp_host and alert.smtp_port in config.yaml
  2. Check AGRIETL_ALERT_SENDER and AGRIETL_ALERT_PASSWORD`
	vars := []any{host, port}
	return &gn.Error{
		Code: errcode.AlertSendError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot send alert via %s:%d: %w", host, port, err),
	}
}
