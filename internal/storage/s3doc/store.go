// Package s3doc implements storage.Store on an S3-compatible bucket (AWS S3,
// MinIO, Cloudflare R2). Every record is one JSON object:
//
//	<prefix>users/<id>.json
//	<prefix>users-by-email/<email>             body: user id
//	<prefix>accounts/<owner>/ingredients/<id>.json
//	<prefix>accounts/<owner>/recipes/<id>.json
//	<prefix>owners/<kind>/<id>                 body: owner id
//
// Object stores have no transactions: a recipe is a single object, so it is
// still written atomically, but the owner marker and the email index are
// separate writes.
package s3doc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const (
	kindIngredient = "ingredient"
	kindRecipe     = "recipe"
)

// Config holds the bucket location and optional static credentials. Without
// credentials the default AWS chain is used.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, e.g. a MinIO or R2 URL
	PathStyle       bool
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

// Store is an S3-backed document store.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates a store for cfg.Bucket.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func newWithClient(client *s3.Client, bucket, prefix string) *Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

// Close is a no-op; the S3 client holds no long-lived resources.
func (s *Store) Close() error {
	return nil
}

func now() int64 {
	return time.Now().UnixMilli()
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

func (s *Store) userKey(id string) string { return s.prefix + "users/" + id + ".json" }

func (s *Store) emailKey(email string) string {
	return s.prefix + "users-by-email/" + strings.ToLower(email)
}

func (s *Store) docDir(ownerID, kind string) string {
	return s.prefix + "accounts/" + ownerID + "/" + kind + "s/"
}

func (s *Store) docKey(ownerID, kind, id string) string {
	return s.docDir(ownerID, kind) + id + ".json"
}

func (s *Store) ownerKey(kind, id string) string {
	return s.prefix + "owners/" + kind + "/" + id
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.getObject(ctx, s.emailKey(user.Email)); err == nil {
		return fmt.Errorf("email %s: %w", user.Email, storage.ErrConflict)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.putObject(ctx, s.userKey(user.ID), data, "application/json"); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.putObject(ctx, s.emailKey(user.Email), []byte(user.ID), "text/plain"); err != nil {
		return fmt.Errorf("failed to index user email: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := s.getObject(ctx, s.emailKey(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return s.GetUserByID(ctx, string(id))
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	data, err := s.getObject(ctx, s.userKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// ---------------------------------------------------------------------------
// Ingredients
// ---------------------------------------------------------------------------

func (s *Store) ListIngredients(ctx context.Context, ownerID string) ([]models.Ingredient, error) {
	out := []models.Ingredient{}
	err := s.listDocs(ctx, ownerID, kindIngredient, func(data []byte) error {
		var ing models.Ingredient
		if err := json.Unmarshal(data, &ing); err != nil {
			return err
		}
		out = append(out, ing)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (s *Store) GetIngredient(ctx context.Context, ownerID, id string) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.getDoc(ctx, ownerID, kindIngredient, id, &ing); err != nil {
		return nil, err
	}
	return &ing, nil
}

func (s *Store) UpsertIngredient(ctx context.Context, ing *models.Ingredient) error {
	if ing.ID == "" {
		ing.ID = uuid.New().String()
	}
	ing.UpdatedAt = now()

	var stored models.Ingredient
	exists, err := s.claim(ctx, ing.OwnerID, kindIngredient, ing.ID, &stored)
	if err != nil {
		return err
	}
	switch {
	case exists:
		ing.CreatedAt = stored.CreatedAt
	case ing.CreatedAt == 0:
		ing.CreatedAt = ing.UpdatedAt
	}
	return s.putDoc(ctx, ing.OwnerID, kindIngredient, ing.ID, ing)
}

func (s *Store) DeleteIngredient(ctx context.Context, ownerID, id string) error {
	return s.deleteDoc(ctx, ownerID, kindIngredient, id)
}

// ---------------------------------------------------------------------------
// Recipes
// ---------------------------------------------------------------------------

func (s *Store) ListRecipes(ctx context.Context, ownerID string) ([]models.Recipe, error) {
	out := []models.Recipe{}
	err := s.listDocs(ctx, ownerID, kindRecipe, func(data []byte) error {
		var r models.Recipe
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		if r.Items == nil {
			r.Items = []models.RecipeItem{}
		}
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *Store) GetRecipe(ctx context.Context, ownerID, id string) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.getDoc(ctx, ownerID, kindRecipe, id, &r); err != nil {
		return nil, err
	}
	if r.Items == nil {
		r.Items = []models.RecipeItem{}
	}
	return &r, nil
}

func (s *Store) UpsertRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	for i := range recipe.Items {
		if recipe.Items[i].ID == "" {
			recipe.Items[i].ID = uuid.New().String()
		}
	}
	recipe.UpdatedAt = now()

	var stored models.Recipe
	exists, err := s.claim(ctx, recipe.OwnerID, kindRecipe, recipe.ID, &stored)
	if err != nil {
		return err
	}
	switch {
	case exists:
		recipe.CreatedAt = stored.CreatedAt
	case recipe.CreatedAt == 0:
		recipe.CreatedAt = recipe.UpdatedAt
	}
	return s.putDoc(ctx, recipe.OwnerID, kindRecipe, recipe.ID, recipe)
}

func (s *Store) DeleteRecipe(ctx context.Context, ownerID, id string) error {
	return s.deleteDoc(ctx, ownerID, kindRecipe, id)
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

// claim checks the owner marker of (kind, id). It reports whether the
// document already exists for ownerID, decoding it into stored, and fails
// with ErrNotFound when another account owns the id.
func (s *Store) claim(ctx context.Context, ownerID, kind, id string, stored any) (bool, error) {
	owner, err := s.getObject(ctx, s.ownerKey(kind, id))
	if errors.Is(err, storage.ErrNotFound) {
		if err := s.putObject(ctx, s.ownerKey(kind, id), []byte(ownerID), "text/plain"); err != nil {
			return false, fmt.Errorf("failed to claim %s: %w", kind, err)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s owner: %w", kind, err)
	}
	if string(owner) != ownerID {
		return false, notFound(kind, id)
	}

	err = s.getDoc(ctx, ownerID, kind, id, stored)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) putDoc(ctx context.Context, ownerID, kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	if err := s.putObject(ctx, s.docKey(ownerID, kind, id), data, "application/json"); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return nil
}

func (s *Store) getDoc(ctx context.Context, ownerID, kind, id string, v any) error {
	data, err := s.getObject(ctx, s.docKey(ownerID, kind, id))
	if errors.Is(err, storage.ErrNotFound) {
		return notFound(kind, id)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return nil
}

func (s *Store) deleteDoc(ctx context.Context, ownerID, kind, id string) error {
	key := s.docKey(ownerID, kind, id)
	if _, err := s.getObject(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFound(kind, id)
		}
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: aws.String(key)}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: aws.String(s.ownerKey(kind, id))}); err != nil {
		return fmt.Errorf("failed to release %s: %w", kind, err)
	}
	return nil
}

func (s *Store) listDocs(ctx context.Context, ownerID, kind string, fn func(data []byte) error) error {
	prefix := s.docDir(ownerID, kind)
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return err
		}
		for _, obj := range out.Contents {
			data, err := s.getObject(ctx, aws.ToString(obj.Key))
			if errors.Is(err, storage.ErrNotFound) {
				continue // deleted since listing
			}
			if err != nil {
				return err
			}
			if err := fn(data); err != nil {
				return err
			}
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		return nil
	}
}

// ---------------------------------------------------------------------------
// Objects
// ---------------------------------------------------------------------------

func (s *Store) putObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// getObject returns the object body, or an error wrapping
// storage.ErrNotFound when the key does not exist.
func (s *Store) getObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: aws.String(key)})
	if isNotFound(err) {
		return nil, fmt.Errorf("%s: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
