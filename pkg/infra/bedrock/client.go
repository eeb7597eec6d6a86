package bedrock

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	stsTypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRegion      = "us-east-1"
	defaultSessionName = "BarButlerSession"
)

type Credentials struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	UseRole      bool
	RoleARN      string
	SessionName  string
}

//go:generate mockery --name=RuntimeAPI --dir=. --output=./mocks --filename=runtime_api_mock.go --case=underscore

// RuntimeAPI is the part of the bedrock runtime used for model invocation.
type RuntimeAPI interface {
	InvokeModel(
		ctx context.Context,
		params *bedrockruntime.InvokeModelInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.InvokeModelOutput, error)
}

// Client hands out one runtime client per distinct credential set.
type Client interface {
	BuildClient(ctx context.Context, creds Credentials) (RuntimeAPI, error)
}

type client struct {
	pool *sync.Map
	sf   singleflight.Group
}

func NewClient() Client {
	return &client{pool: &sync.Map{}}
}

func (c *client) BuildClient(ctx context.Context, creds Credentials) (RuntimeAPI, error) {
	key := clientKey(creds)
	if v, ok := c.pool.Load(key); ok {
		if rc, ok := v.(*bedrockruntime.Client); ok {
			return rc, nil
		}
	}
	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if v2, ok := c.pool.Load(key); ok {
			return v2, nil
		}
		cfg, err := buildAwsConfig(ctx, creds)
		if err != nil {
			return nil, err
		}
		rc := bedrockruntime.NewFromConfig(cfg)
		c.pool.Store(key, rc)
		return rc, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build bedrock client: %w", err)
	}
	rc, ok := v.(*bedrockruntime.Client)
	if !ok {
		return nil, fmt.Errorf("invalid client type in pool")
	}
	return rc, nil
}

func clientKey(creds Credentials) string {
	return fmt.Sprintf("%s:%s:%v:%s", creds.AccessKey, region(creds), creds.UseRole, creds.RoleARN)
}

func region(creds Credentials) string {
	if creds.Region == "" {
		return defaultRegion
	}
	return creds.Region
}

func buildAwsConfig(ctx context.Context, creds Credentials) (aws.Config, error) {
	r := region(creds)
	if creds.UseRole && creds.RoleARN != "" {
		assumed, err := assumeRole(ctx, creds, r)
		if err != nil {
			return aws.Config{}, err
		}
		return loadAWSConfig(ctx, *assumed.AccessKeyId, *assumed.SecretAccessKey, *assumed.SessionToken, r)
	}
	if creds.AccessKey == "" {
		// default credential chain (env, shared config, instance role)
		return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(r))
	}
	return loadAWSConfig(ctx, creds.AccessKey, creds.SecretKey, creds.SessionToken, r)
}

func loadAWSConfig(ctx context.Context, accessKey, secretKey, sessionToken, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
					SessionToken:    sessionToken,
				}, nil
			},
		)),
		awsconfig.WithRegion(region),
	)
}

func assumeRole(ctx context.Context, creds Credentials, region string) (*stsTypes.Credentials, error) {
	baseCfg, err := loadAWSConfig(ctx, creds.AccessKey, creds.SecretKey, creds.SessionToken, region)
	if err != nil {
		return nil, fmt.Errorf("unable to load base AWS config: %w", err)
	}
	stsClient := sts.NewFromConfig(baseCfg)

	sessionName := creds.SessionName
	if sessionName == "" {
		sessionName = defaultSessionName
	}

	output, err := stsClient.AssumeRole(ctx, &sts.AssumeRoleInput{
		RoleArn:         aws.String(creds.RoleARN),
		RoleSessionName: aws.String(sessionName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assume role: %w", err)
	}
	return output.Credentials, nil
}
