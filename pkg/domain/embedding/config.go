package embedding

type Credentials struct {
	ApiKey      string `mapstructure:"api_key"`
	HeaderName  string `mapstructure:"header_name"`
	HeaderValue string `mapstructure:"header_value"`

	AwsRegion    string `mapstructure:"aws_region"`
	AwsAccessKey string `mapstructure:"aws_access_key"`
	AwsSecretKey string `mapstructure:"aws_secret_key"`
	AwsRoleARN   string `mapstructure:"aws_role_arn"`
}

type Config struct {
	Provider    string      `mapstructure:"provider"`
	Model       string      `mapstructure:"model"`
	BaseURL     string      `mapstructure:"base_url"`
	BatchSize   int         `mapstructure:"batch_size"`
	Credentials Credentials `mapstructure:"credentials"`
}
