package db

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/jsphweid/genomedex/constants"
	"github.com/jsphweid/genomedex/model"
	"github.com/jsphweid/genomedex/util"
)

// GetTrackMetadatas looks up display metadata for the given file basenames in
// a DynamoDB table keyed by PK = basename. Missing rows are simply absent
// from the result; callers fall back to basenames.
func GetTrackMetadatas(table string, basenames []string) (map[string]model.TrackMetadata, error) {
	res := make(map[string]model.TrackMetadata)
	if len(basenames) == 0 {
		return res, nil
	}

	cfg := aws.Config{Region: aws.String(constants.GetMetadataRegion())}
	if endpoint := constants.GetMetadataEndpoint(); endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("dynamodb session: %w", err)
	}
	client := dynamodb.New(sess)

	for start := 0; start < len(basenames); start += constants.MetadataBatchSize {
		end := util.Min(start+constants.MetadataBatchSize, len(basenames))
		if err := getBatch(client, table, basenames[start:end], res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func getBatch(client *dynamodb.DynamoDB, table string, basenames []string, res map[string]model.TrackMetadata) error {
	var keys []map[string]*dynamodb.AttributeValue
	for _, name := range basenames {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(name)},
		})
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			table: {Keys: keys},
		},
	}
	out, err := client.BatchGetItem(input)
	if err != nil {
		return fmt.Errorf("dynamodb batch get: %w", err)
	}

	for _, item := range out.Responses[table] {
		pk := stringAttr(item, "PK")
		if pk == "" {
			continue
		}
		res[pk] = model.TrackMetadata{
			Sample:      stringAttr(item, "Sample"),
			Library:     stringAttr(item, "Library"),
			Description: stringAttr(item, "Description"),
		}
	}
	return nil
}

func stringAttr(item map[string]*dynamodb.AttributeValue, name string) string {
	if v, ok := item[name]; ok && v.S != nil {
		return *v.S
	}
	return ""
}
