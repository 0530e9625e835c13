package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreEntry is the document shape written for every key
type firestoreEntry struct {
	Value string `firestore:"value"`
}

// FirestoreBackend stores one document per key in a single collection
type FirestoreBackend struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreBackend(client *firestore.Client, collection string) *FirestoreBackend {
	return &FirestoreBackend{client: client, collection: collection}
}

// DialFirestore opens a client for project. FIRESTORE_EMULATOR_HOST is honoured
// by the client library.
func DialFirestore(ctx context.Context, project, collection string) (*FirestoreBackend, error) {
	client, err := firestore.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore: %w", err)
	}
	return NewFirestoreBackend(client, collection), nil
}

func (f *FirestoreBackend) Get(ctx context.Context, key string) (string, error) {
	doc, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}

	var entry firestoreEntry
	if err := doc.DataTo(&entry); err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return entry.Value, nil
}

func (f *FirestoreBackend) Set(ctx context.Context, key, value string) error {
	_, err := f.client.Collection(f.collection).Doc(key).Set(ctx, firestoreEntry{Value: value})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (f *FirestoreBackend) Delete(ctx context.Context, key string) error {
	if _, err := f.client.Collection(f.collection).Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (f *FirestoreBackend) Ping(ctx context.Context) error {
	_, err := f.client.Collection(f.collection).Limit(1).Documents(ctx).GetAll()
	return err
}

func (f *FirestoreBackend) Close() error {
	return f.client.Close()
}
