package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/linguakit/core/catalog"
)

const (
	keysCollection         = "translation_keys"
	translationsCollection = "translations"
	countersCollection     = "counters"

	keyIDCounter = "translation_key_id"
)

type keyDoc struct {
	ID          int64     `bson:"_id"`
	Key         string    `bson:"key"`
	DefaultText string    `bson:"default_text"`
	Category    string    `bson:"category"`
	Context     string    `bson:"context"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type translationDoc struct {
	KeyID      int64     `bson:"key_id"`
	Language   string    `bson:"language"`
	Text       string    `bson:"text"`
	Provenance string    `bson:"provenance"`
	Model      string    `bson:"model"`
	Approved   bool      `bson:"approved"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// Store is the MongoDB-backed catalog.Store. Numeric key ids are allocated
// from a counters collection so the id type matches the rest of the
// catalog contract.
type Store struct {
	db          *mongo.Database
	defaultLang string
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithDefaultLanguage overrides the default language reported by
// ListLanguages. Default is "en".
func WithDefaultLanguage(lang string) StoreOption {
	return func(s *Store) {
		if lang != "" {
			s.defaultLang = lang
		}
	}
}

// NewStore creates a catalog store on top of an established database handle.
func NewStore(db *mongo.Database, opts ...StoreOption) *Store {
	s := &Store{
		db:          db,
		defaultLang: catalog.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureIndexes creates the unique indexes the upsert paths rely on. Call
// once at startup; index creation is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(keysCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: create key index: %w", err)
	}

	_, err = s.db.Collection(translationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key_id", Value: 1}, {Key: "language", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: create translation index: %w", err)
	}
	return nil
}

// GetKey returns the key record or catalog.ErrNotFound.
func (s *Store) GetKey(ctx context.Context, key string) (*catalog.Key, error) {
	if key == "" {
		return nil, catalog.ErrEmptyKey
	}

	var doc keyDoc
	err := s.db.Collection(keysCollection).FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: get key %q: %w", key, err)
	}
	k := keyFromDoc(doc)
	return &k, nil
}

// UpsertKey creates the key or updates its default text in place. The
// modification timestamp only moves when the default text actually
// changes, keeping redundant calls idempotent. Losers of a concurrent
// insert race converge onto the winner's record.
func (s *Store) UpsertKey(ctx context.Context, key, defaultText, category, keyContext string) (int64, error) {
	if key == "" {
		return 0, catalog.ErrEmptyKey
	}

	keys := s.db.Collection(keysCollection)

	for {
		var existing keyDoc
		err := keys.FindOne(ctx, bson.M{"key": key}).Decode(&existing)
		if err == nil {
			return existing.ID, s.updateKey(ctx, existing, defaultText, category, keyContext)
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("mongo: upsert key %q: %w", key, err)
		}

		id, err := s.nextKeyID(ctx)
		if err != nil {
			return 0, err
		}

		now := time.Now()
		_, err = keys.InsertOne(ctx, keyDoc{
			ID:          id,
			Key:         key,
			DefaultText: defaultText,
			Category:    category,
			Context:     keyContext,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err == nil {
			return id, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			// Lost the insert race; loop back onto the update path.
			continue
		}
		return 0, fmt.Errorf("mongo: upsert key %q: %w", key, err)
	}
}

func (s *Store) updateKey(ctx context.Context, existing keyDoc, defaultText, category, keyContext string) error {
	set := bson.M{"default_text": defaultText}
	if defaultText != existing.DefaultText {
		set["updated_at"] = time.Now()
	}
	if category != "" {
		set["category"] = category
	}
	if keyContext != "" {
		set["context"] = keyContext
	}

	_, err := s.db.Collection(keysCollection).UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongo: update key %q: %w", existing.Key, err)
	}
	return nil
}

func (s *Store) nextKeyID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": keyIDCounter},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("mongo: allocate key id: %w", err)
	}
	return counter.Seq, nil
}

// GetTranslation returns the translated text for (key, language) or
// catalog.ErrNotFound.
func (s *Store) GetTranslation(ctx context.Context, key, language string) (string, error) {
	if key == "" {
		return "", catalog.ErrEmptyKey
	}
	if language == "" {
		return "", catalog.ErrEmptyLang
	}

	var kd keyDoc
	err := s.db.Collection(keysCollection).FindOne(ctx, bson.M{"key": key}).Decode(&kd)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", catalog.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo: get translation %q/%s: %w", key, language, err)
	}

	var td translationDoc
	err = s.db.Collection(translationsCollection).
		FindOne(ctx, bson.M{"key_id": kd.ID, "language": language}).Decode(&td)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", catalog.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo: get translation %q/%s: %w", key, language, err)
	}
	return td.Text, nil
}

// UpsertTranslation inserts or replaces the translation for
// (keyID, language).
func (s *Store) UpsertTranslation(ctx context.Context, keyID int64, language, text string, provenance catalog.Provenance, model string) error {
	if keyID <= 0 {
		return catalog.ErrInvalidKeyID
	}
	if language == "" {
		return catalog.ErrEmptyLang
	}

	now := time.Now()
	_, err := s.db.Collection(translationsCollection).UpdateOne(ctx,
		bson.M{"key_id": keyID, "language": language},
		bson.M{
			"$set": bson.M{
				"text":       text,
				"provenance": string(provenance),
				"model":      model,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{
				"approved":   false,
				"created_at": now,
			},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo: upsert translation %d/%s: %w", keyID, language, err)
	}
	return nil
}

// ListKeys returns every key in the catalog ordered by key.
func (s *Store) ListKeys(ctx context.Context) ([]catalog.Key, error) {
	cursor, err := s.db.Collection(keysCollection).
		Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: list keys: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []keyDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: list keys: %w", err)
	}

	keys := make([]catalog.Key, 0, len(docs))
	for _, doc := range docs {
		keys = append(keys, keyFromDoc(doc))
	}
	return keys, nil
}

// ListLanguages returns the distinct translation languages plus the
// default language, default first.
func (s *Store) ListLanguages(ctx context.Context) ([]string, error) {
	var distinct []string
	err := s.db.Collection(translationsCollection).
		Distinct(ctx, "language", bson.M{"language": bson.M{"$ne": s.defaultLang}}).
		Decode(&distinct)
	if err != nil {
		return nil, fmt.Errorf("mongo: list languages: %w", err)
	}

	return append([]string{s.defaultLang}, distinct...), nil
}

func keyFromDoc(doc keyDoc) catalog.Key {
	return catalog.Key{
		ID:          doc.ID,
		Key:         doc.Key,
		DefaultText: doc.DefaultText,
		Category:    doc.Category,
		Context:     doc.Context,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
