package xmpp

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

type (
	// Config of the account alerts are sent from.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
	}
)

var errMissingConfig = errors.New("missing xmpp config")

func serverName(jid string) string {
	parts := strings.SplitN(jid, "@", 2)
	if len(parts) < 2 {
		return jid
	}
	return strings.Split(parts[1], "/")[0]
}

// Enabled reports whether enough is configured to send messages.
func (x Xmpp) Enabled() bool {
	return len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

// Send delivers message to the configured recipient.
func (x Xmpp) Send(message string) error {

	if !x.Enabled() {
		log.Debug("missing xmpp config")

		return errMissingConfig
	}

	if len(x.Config.Host) == 0 {
		x.Config.Host = serverName(x.Config.Jid)
	}

	xmpp.DefaultConfig = tls.Config{
		InsecureSkipVerify: true,
	}

	options := xmpp.Options{
		Host:          x.Config.Host,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "route-weather alerts",
	}

	log.WithField("host", options.Host).Debug("create xmpp client")
	talk, err := options.NewClient()
	if err != nil {
		return err
	}
	defer talk.Close()

	log.WithField("to", x.Config.To).Debug("send xmpp message")
	_, err = talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message})

	return err
}
