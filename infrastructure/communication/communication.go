package communication

import (
	"fmt"

	"github.com/slack-go/slack"

	"sitelink.com/sitelink/model"
)

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
	// APIURL overrides the Slack endpoint, with a trailing slash.
	APIURL string
}

func NewSlack(token string, options SlackOption) *Slack {
	var opts []slack.Option
	if options.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(options.APIURL))
	}
	client := slack.New(token, opts...)
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(message string) error {
	return s.postMessage(s.options.InfoChannelID, message)
}

func (s *Slack) Error(message string) error {
	return s.postMessage(s.options.ErrorChannelID, message)
}

// Incident posts a newly reported incident. High and critical incidents go to
// the error channel.
func (s *Slack) Incident(i model.Incident, reporter string) error {
	msg := IncidentMessage(i, reporter)
	if i.Severity.Severe() {
		return s.Error(msg)
	}
	return s.Info(msg)
}

func IncidentMessage(i model.Incident, reporter string) string {
	msg := fmt.Sprintf(":warning: [%s] %s (project %d, %s)", i.Severity, i.Title, i.Project, i.IncidentDate)
	if i.Location != "" {
		msg += "\nLocation: " + i.Location
	}
	if reporter != "" {
		msg += "\nReported by: " + reporter
	}
	return msg
}
