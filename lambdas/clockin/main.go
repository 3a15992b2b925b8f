package main

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/infrastructure/devops"
	"sitelink.com/sitelink/infrastructure/filesystem"
	"sitelink.com/sitelink/lambdas/clockin/helper"
	"sitelink.com/sitelink/utils"
)

var log = utils.DefaultLogger

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func zone() *time.Location {
	return utils.LoadZone(env("SITE_TIME_ZONE", "Australia/Brisbane"))
}

func dsn(ctx context.Context) (string, error) {
	if v := os.Getenv("DSN"); v != "" {
		return v, nil
	}
	secrets, err := devops.LoadSecrets(ctx, env("SITELINK_SECRETS_PARAMETER", "sitelink"))
	if err != nil {
		return "", err
	}
	if secrets.DSN == "" {
		return "", fmt.Errorf("no dsn in secrets")
	}
	return secrets.DSN, nil
}

func importFile(ctx context.Context, data []byte, source string) (helper.Stats, error) {
	punches, err := helper.ParsePunches(bytes.NewReader(data), zone())
	if err != nil {
		return helper.Stats{}, fmt.Errorf("parse %s: %w", source, err)
	}
	shifts := helper.GroupShifts(punches)
	log.Infof("%s: %d punches, %d shifts", source, len(punches), len(shifts))

	conn, err := dsn(ctx)
	if err != nil {
		return helper.Stats{}, err
	}
	dm, err := core.New(conn, 2, core.LogLevelError)
	if err != nil {
		return helper.Stats{}, err
	}
	defer dm.Close()

	stats, err := helper.Import(dm.DB.WithContext(ctx), shifts, log)
	if err != nil {
		return stats, err
	}
	log.Infof("%s: %d created, %d open, %d skipped, %d failed", source, stats.Created, stats.Open, stats.Skipped, stats.Failed)
	return stats, nil
}

// HandleRequest imports every clock export named in the S3 event.
func HandleRequest(ctx context.Context, event events.S3Event) ([]helper.Stats, error) {
	var results []helper.Stats
	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			key = record.S3.Object.Key
		}

		fs, err := filesystem.Open(ctx, bucket)
		if err != nil {
			return results, err
		}
		var buf bytes.Buffer
		if err := fs.ReadFile(ctx, key, &buf); err != nil {
			return results, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
		}

		stats, err := importFile(ctx, buf.Bytes(), "s3://"+bucket+"/"+key)
		if err != nil {
			return results, err
		}
		results = append(results, stats)
	}
	return results, nil
}

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
		return
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: clockin FILE.csv")
		os.Exit(2)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	if _, err := importFile(context.Background(), data, os.Args[1]); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
