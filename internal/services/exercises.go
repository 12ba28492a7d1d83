package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studiowebux/fitadmin/internal/executor"
	"github.com/studiowebux/fitadmin/internal/types"
)

const (
	pathExercises  = "/exercise"
	pathBulkImport = "/exercise/bulk-import"
)

// Exercise publication statuses
const (
	ExercisePublished = "published"
	ExerciseDraft     = "draft"
)

// Exercises manages the exercise library
type Exercises struct {
	client *executor.Client
}

// List returns one page of exercises
func (e *Exercises) List(ctx context.Context, q PageQuery) (*types.Page[types.Exercise], error) {
	return fetchPage[types.Exercise](ctx, e.client, pathExercises, q)
}

// Get returns one exercise
func (e *Exercises) Get(ctx context.Context, id string) (*types.Exercise, error) {
	var exercise types.Exercise
	if err := e.client.Get(ctx, idPath(pathExercises, id), &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

// Create adds an exercise
func (e *Exercises) Create(ctx context.Context, req types.ExerciseRequest) (*types.Exercise, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("exercise title is required")
	}
	var exercise types.Exercise
	if err := e.client.Post(ctx, pathExercises, req, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

// Update replaces the editable fields of an exercise
func (e *Exercises) Update(ctx context.Context, id string, req types.ExerciseRequest) (*types.Exercise, error) {
	var exercise types.Exercise
	if err := e.client.Put(ctx, idPath(pathExercises, id), req, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

// UpdateStatus publishes or unpublishes an exercise
func (e *Exercises) UpdateStatus(ctx context.Context, id, status string) (*types.Exercise, error) {
	if status != ExercisePublished && status != ExerciseDraft {
		return nil, fmt.Errorf("invalid exercise status %q (expected %s or %s)", status, ExercisePublished, ExerciseDraft)
	}
	var exercise types.Exercise
	if err := e.client.Patch(ctx, idPath(pathExercises, id)+"/status", types.ExerciseStatusRequest{Status: status}, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

// Delete removes an exercise
func (e *Exercises) Delete(ctx context.Context, id string) error {
	return e.client.Delete(ctx, idPath(pathExercises, id), nil)
}

// BulkImport uploads a batch of exercise rows. The backend answer is returned
// undecoded since its summary format varies.
func (e *Exercises) BulkImport(ctx context.Context, rows []types.ExerciseImport) (json.RawMessage, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no exercises to import")
	}
	var summary json.RawMessage
	if err := e.client.Post(ctx, pathBulkImport, rows, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}
