package services

import (
	"context"

	"github.com/studiowebux/fitadmin/internal/executor"
	"github.com/studiowebux/fitadmin/internal/types"
)

const pathAppSetting = "/appSetting"

// Settings reads and toggles platform-wide switches
type Settings struct {
	client *executor.Client
}

// Get returns the current app setting
func (s *Settings) Get(ctx context.Context) (*types.AppSetting, error) {
	var setting types.AppSetting
	if err := s.client.Get(ctx, pathAppSetting, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

// Toggle flips notificationsEnabled on the setting with id
func (s *Settings) Toggle(ctx context.Context, id string) (*types.AppSetting, error) {
	var setting types.AppSetting
	if err := s.client.Put(ctx, idPath(pathAppSetting, id), nil, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}
