package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dkrasnovs/accounts-service/internal/common"
	sc "github.com/dkrasnovs/accounts-service/internal/server/config"
	"github.com/dkrasnovs/accounts-service/internal/server/models"
	"github.com/dkrasnovs/accounts-service/internal/server/repositories/repomanager"
)

const presignValidity = 15 * time.Minute

// Seams for the AWS SDK calls so presign flows are testable without a live
// S3 endpoint.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ProfileService manages the optional 1:1 user profile and the avatar stored
// in S3-compatible object storage. Avatars never pass through the service;
// clients upload and download through presigned URLs.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *ProfileService {
	return &ProfileService{db: db, repomanager: m, config: config}
}

// avatarStorageKey builds a fresh storage key scoped to the user, random so
// re-uploads never collide with a cached previous object.
func avatarStorageKey(userID int64) string {
	return fmt.Sprintf("avatars/%d/%v", userID, uuid.New())
}

// Upsert creates or overwrites the user's profile. The gender, when set,
// must be a known value.
func (s *ProfileService) Upsert(ctx context.Context, profile *models.Profile) error {
	if profile.Gender != "" && !profile.Gender.Valid() {
		return fmt.Errorf("unknown gender %q", profile.Gender)
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, profile.UserID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: id %d", common.ErrUserNotFound, profile.UserID)
		}
		return err
	}
	return s.repomanager.Profiles(s.db).Upsert(ctx, profile)
}

// Get returns the user's profile or common.ErrNotFound when none exists.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, userID)
}

func (s *ProfileService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// NewAvatarUploadURL returns a fresh storage key and a presigned PUT URL the
// client uploads the avatar to. The key is not recorded yet; the client
// confirms the upload through SetAvatar.
func (s *ProfileService) NewAvatarUploadURL(ctx context.Context, userID int64) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := avatarStorageKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// SetAvatar records the uploaded object's key on the user's profile.
func (s *ProfileService) SetAvatar(ctx context.Context, userID int64, key string) error {
	return s.repomanager.Profiles(s.db).SetAvatarKey(ctx, userID, key)
}

// AvatarURL returns a presigned GET URL for the user's current avatar.
// Returns common.ErrNotFound when the profile is absent or has no avatar.
func (s *ProfileService) AvatarURL(ctx context.Context, userID int64) (string, error) {
	profile, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.AvatarKey == "" {
		return "", fmt.Errorf("%w: no avatar for user %d", common.ErrNotFound, userID)
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &profile.AvatarKey,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
