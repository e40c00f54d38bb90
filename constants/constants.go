package constants

import "os"

// PathSeparatorPlaceholder stands in for "/" so a whole filesystem path can
// travel as a single URL segment. The front end escapes paths the same way.
const PathSeparatorPlaceholder = "|"

const DefaultAddr = "127.0.0.1:8042"

const DefaultLociPerPage = 50

// MetadataBatchSize caps how many keys go into a single DynamoDB
// BatchGetItem call.
const MetadataBatchSize = 10

func GetMetadataEndpoint() string {
	// mostly for pointing at dynamodb-local during development
	return os.Getenv("GENOMEDEX_METADATA_ENDPOINT")
}

func GetMetadataRegion() string {
	region := os.Getenv("GENOMEDEX_METADATA_REGION")
	if region != "" {
		return region
	}
	return "us-east-1"
}
