// Copyright (c) 2026 Editaliza. All rights reserved.

package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/editaliza/editaliza/internal/platform/apperr"
	"github.com/editaliza/editaliza/pkg/pagination"
)

// Service implements the feed read use cases.
type Service struct {
	repository Repository
}

// NewService constructs a [Service] over repository.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Editals returns one page of editais, optionally restricted to a status.
func (service *Service) Editals(ctx context.Context, status EditalStatus, page pagination.Params) ([]Edital, pagination.Meta, error) {
	editals, total, err := service.repository.ListEditals(ctx, EditalFilter{
		Status: status,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, pagination.Meta{}, loadFailure("editals", err)
	}
	return editals, page.Meta(total), nil
}

func (service *Service) Proposers(ctx context.Context) ([]Proposer, error) {
	proposers, err := service.repository.ListProposers(ctx)
	if err != nil {
		return nil, loadFailure("proposers", err)
	}
	return proposers, nil
}

func (service *Service) Profiles(ctx context.Context) ([]Profile, error) {
	profiles, err := service.repository.ListProfiles(ctx)
	if err != nil {
		return nil, loadFailure("users", err)
	}
	return profiles, nil
}

func (service *Service) Tags(ctx context.Context) ([]Tag, error) {
	tags, err := service.repository.ListTags(ctx)
	if err != nil {
		return nil, loadFailure("tags", err)
	}
	return tags, nil
}

func (service *Service) Comments(ctx context.Context, filter CommentFilter) ([]Comment, error) {
	comments, err := service.repository.ListComments(ctx, filter)
	if err != nil {
		return nil, loadFailure("comments", err)
	}
	return comments, nil
}

/*
Data loads every listing concurrently into the /api/data aggregate.

The first failure cancels the remaining loads and the whole call fails;
partial aggregates are never returned.
*/
func (service *Service) Data(ctx context.Context) (*AllData, error) {
	var data AllData
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		data.UserData, err = service.repository.ListProfiles(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		data.Artists, err = service.repository.ListArtists(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		data.Proposers, err = service.repository.ListProposers(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		data.Editals, _, err = service.repository.ListEditals(groupCtx, EditalFilter{})
		return err
	})
	group.Go(func() (err error) {
		data.Tags, err = service.repository.ListTags(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		data.Comments, err = service.repository.ListComments(groupCtx, CommentFilter{})
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, loadFailure("data", err)
	}
	return &data, nil
}

func loadFailure(resource string, err error) error {
	return apperr.InternalMessage("Failed to load "+resource, err)
}
