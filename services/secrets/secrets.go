package secrets

import (
	"context"
	"encoding/base64"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"sjsage522/priceworker/logger"
	"sjsage522/priceworker/pkg/errors"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// NewTokenSource decrypts the KMS-encrypted Google service account key
// and returns an OAuth2 token source for the BigQuery REST API.
// encryptedKey is the base64 encoded KMS ciphertext from configuration.
func NewTokenSource(ctx context.Context, encryptedKey string) (oauth2.TokenSource, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedKey)
	if err != nil {
		return nil, errors.NewConfiguration("encrypted key is not valid base64", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.NewConfiguration("failed to load AWS configuration", err)
	}

	client := kms.NewFromConfig(awsCfg)
	out, err := client.Decrypt(ctx, &kms.DecryptInput{CiphertextBlob: ciphertext})
	if err != nil {
		return nil, errors.NewConfiguration("failed to decrypt service account key", err)
	}

	logger.Debug("Service account key decrypted (%d bytes)", len(out.Plaintext))

	return TokenSourceFromServiceAccount(ctx, out.Plaintext)
}

// TokenSourceFromServiceAccount builds an OAuth2 token source from a
// plaintext Google service account JSON key.
func TokenSourceFromServiceAccount(ctx context.Context, jsonKey []byte) (oauth2.TokenSource, error) {
	creds, err := google.CredentialsFromJSON(ctx, jsonKey, cloudPlatformScope)
	if err != nil {
		return nil, errors.NewConfiguration("invalid service account key", err)
	}
	return creds.TokenSource, nil
}
