package services

import (
	"context"

	"github.com/studiowebux/fitadmin/internal/executor"
	"github.com/studiowebux/fitadmin/internal/types"
)

const (
	pathUsers        = "/user"
	pathToggleStatus = "/user/toggle/status"
	pathTrainers     = "/user/trainers"
	pathTrainees     = "/user/clients"
)

// Users reads and manages user accounts
type Users struct {
	client *executor.Client
}

// List returns every application user
func (u *Users) List(ctx context.Context) ([]types.AppUser, error) {
	users := []types.AppUser{}
	if err := u.client.Get(ctx, pathUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns one user
func (u *Users) Get(ctx context.Context, id string) (*types.UserInfo, error) {
	var user types.UserInfo
	if err := u.client.Get(ctx, idPath(pathUsers, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleStatus flips a user between active and inactive
func (u *Users) ToggleStatus(ctx context.Context, id string) (*types.AppUser, error) {
	var user types.AppUser
	if err := u.client.Get(ctx, idPath(pathToggleStatus, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Trainers returns one page of trainers
func (u *Users) Trainers(ctx context.Context, q PageQuery) (*types.Page[types.Trainer], error) {
	return fetchPage[types.Trainer](ctx, u.client, pathTrainers, q)
}

// Trainer returns one trainer
func (u *Users) Trainer(ctx context.Context, id string) (*types.Trainer, error) {
	var trainer types.Trainer
	if err := u.client.Get(ctx, idPath(pathTrainers, id), &trainer); err != nil {
		return nil, err
	}
	return &trainer, nil
}

// TrainerClients returns the trainees assigned to a trainer
func (u *Users) TrainerClients(ctx context.Context, trainerID string) ([]types.Trainee, error) {
	trainees := []types.Trainee{}
	if err := u.client.Get(ctx, idPath(pathTrainers, trainerID)+"/clients", &trainees); err != nil {
		return nil, err
	}
	return trainees, nil
}

// Trainees returns one page of trainees
func (u *Users) Trainees(ctx context.Context, q PageQuery) (*types.Page[types.Trainee], error) {
	return fetchPage[types.Trainee](ctx, u.client, pathTrainees, q)
}

// Trainee returns one trainee
func (u *Users) Trainee(ctx context.Context, id string) (*types.Trainee, error) {
	var trainee types.Trainee
	if err := u.client.Get(ctx, idPath(pathTrainees, id), &trainee); err != nil {
		return nil, err
	}
	return &trainee, nil
}
