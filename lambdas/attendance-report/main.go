package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/infrastructure/communication"
	"sitelink.com/sitelink/infrastructure/devops"
	"sitelink.com/sitelink/infrastructure/filesystem"
	"sitelink.com/sitelink/lambdas/attendance-report/helper"
	"sitelink.com/sitelink/report"
	"sitelink.com/sitelink/utils"
)

var log = utils.DefaultLogger

type Result struct {
	Name      string `json:"name"`
	Records   int    `json:"records"`
	Key       string `json:"key,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func HandleRequest(ctx context.Context, event helper.Event) (*Result, error) {
	eventJSON, _ := json.Marshal(event)
	log.Infof("event: %s", eventJSON)

	zone := utils.LoadZone(env("SITE_TIME_ZONE", "Australia/Brisbane"))
	from, to, err := event.Range(time.Now(), zone)
	if err != nil {
		return nil, err
	}

	secrets, err := devops.LoadSecrets(ctx, env("SITELINK_SECRETS_PARAMETER", "sitelink"))
	if err != nil {
		return nil, err
	}
	if secrets.DSN == "" || secrets.ReportBucket == "" {
		return nil, fmt.Errorf("dsn and report_bucket are required in secrets")
	}

	bucket, err := filesystem.Open(ctx, secrets.ReportBucket)
	if err != nil {
		return nil, err
	}
	name := report.FileName(from, to)
	if !event.Force {
		done, err := helper.AlreadyPublished(ctx, bucket, name)
		if err != nil {
			return nil, err
		}
		if done {
			log.Infof("%s already published", name)
			return &Result{Name: name, Skipped: true}, nil
		}
	}

	dm, err := core.New(secrets.DSN, 2, core.LogLevelError)
	if err != nil {
		return nil, err
	}
	defer dm.Close()

	wb, err := helper.Generate(dm.DB.WithContext(ctx), from, to)
	if err != nil {
		return nil, err
	}

	pub := &report.Publisher{Bucket: bucket, Prefix: helper.Prefix, Log: log}
	if secrets.ReportSender != "" && len(secrets.ReportRecipients) > 0 {
		mail, err := communication.OpenMail(ctx)
		if err != nil {
			return nil, err
		}
		pub.Mail, pub.From, pub.Recipients = mail, secrets.ReportSender, secrets.ReportRecipients
	}
	if secrets.SlackToken != "" {
		pub.Slack = communication.NewSlack(secrets.SlackToken, communication.SlackOption{
			InfoChannelID:  secrets.SlackInfoChannel,
			ErrorChannelID: secrets.SlackErrorChannel,
		})
	}

	out, err := pub.Publish(ctx, wb.Name, wb.Summary, wb.Data)
	if err != nil {
		if pub.Slack != nil {
			if serr := pub.Slack.Error(fmt.Sprintf("attendance report %s failed: %v", wb.Name, err)); serr != nil {
				log.Warnf("slack: %v", serr)
			}
		}
		return nil, err
	}
	return &Result{Name: wb.Name, Records: wb.Records, Key: out.Key, MessageID: out.MessageID}, nil
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
		return
	}

	var event helper.Event
	if len(os.Args) > 1 {
		event.From = os.Args[1]
	}
	if len(os.Args) > 2 {
		event.To = os.Args[2]
	}
	res, err := HandleRequest(context.Background(), event)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Printf("%s\n", out)
}
