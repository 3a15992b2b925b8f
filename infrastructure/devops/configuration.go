package devops

import (
	"context"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Secrets is the YAML document kept in the SSM parameter.
type Secrets struct {
	SlackToken        string   `yaml:"slack_token"`
	SlackInfoChannel  string   `yaml:"slack_info_channel"`
	SlackErrorChannel string   `yaml:"slack_error_channel"`
	ReportSender      string   `yaml:"report_sender"`
	ReportRecipients  []string `yaml:"report_recipients"`
	ReportBucket      string   `yaml:"report_bucket"`
	DSN               string   `yaml:"dsn"`
}

type ParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

var (
	mu    sync.Mutex
	cache = map[string]*Secrets{}
)

// LoadSecrets reads and caches the named parameter using the default AWS
// configuration.
func LoadSecrets(ctx context.Context, paramName string) (*Secrets, error) {
	mu.Lock()
	defer mu.Unlock()
	if s, ok := cache[paramName]; ok {
		return s, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s, err := ReadSecrets(ctx, ssm.NewFromConfig(cfg), paramName)
	if err != nil {
		return nil, err
	}
	cache[paramName] = s
	return s, nil
}

func ReadSecrets(ctx context.Context, client ParameterAPI, paramName string) (*Secrets, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter %s: %w", paramName, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s is empty", paramName)
	}

	var parsed Secrets
	if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return &parsed, nil
}
