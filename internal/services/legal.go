package services

import (
	"context"
	"fmt"

	"github.com/studiowebux/fitadmin/internal/executor"
	"github.com/studiowebux/fitadmin/internal/types"
)

// Document selects a legal document
type Document string

const (
	DocumentTerms   Document = "terms"
	DocumentPrivacy Document = "privacy"
)

var documentPaths = map[Document]string{
	DocumentTerms:   "/termAndCondition",
	DocumentPrivacy: "/privacyPolicy",
}

// ParseDocument resolves a document name
func ParseDocument(name string) (Document, error) {
	doc := Document(name)
	if _, ok := documentPaths[doc]; !ok {
		return "", fmt.Errorf("unknown legal document %q (expected %s or %s)", name, DocumentTerms, DocumentPrivacy)
	}
	return doc, nil
}

type contentRequest struct {
	Content string `json:"content"`
}

// Legal reads and edits the terms and privacy documents
type Legal struct {
	client *executor.Client
}

// Get returns the current document
func (l *Legal) Get(ctx context.Context, doc Document) (*types.LegalContent, error) {
	path, err := docPath(doc)
	if err != nil {
		return nil, err
	}
	var content types.LegalContent
	if err := l.client.Get(ctx, path, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Create stores the first version of a document
func (l *Legal) Create(ctx context.Context, doc Document, content string) (*types.LegalContent, error) {
	path, err := docPath(doc)
	if err != nil {
		return nil, err
	}
	var saved types.LegalContent
	if err := l.client.Post(ctx, path, contentRequest{Content: content}, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update replaces a document. An empty id updates the singleton document.
func (l *Legal) Update(ctx context.Context, doc Document, content, id string) (*types.LegalContent, error) {
	path, err := docPath(doc)
	if err != nil {
		return nil, err
	}
	if id != "" {
		path = idPath(path, id)
	}
	var saved types.LegalContent
	if err := l.client.Put(ctx, path, contentRequest{Content: content}, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func docPath(doc Document) (string, error) {
	path, ok := documentPaths[doc]
	if !ok {
		return "", fmt.Errorf("unknown legal document %q", doc)
	}
	return path, nil
}
