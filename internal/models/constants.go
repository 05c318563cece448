package models

const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"

	OutputFormatConsole  = "console"
	OutputFormatJSON     = "json"
	OutputFormatCSV      = "csv"
	OutputFormatParquet  = "parquet"
	OutputFormatKafka    = "kafka"
	OutputFormatPostgres = "postgres"

	OutputDestinationLocal = "local"

	CloudProviderS3 = "s3"

	CombineMultiplicative = "multiplicative"
	CombineAverage        = "average"

	RecommendationTopic = "recommendations"
)
