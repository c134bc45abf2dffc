package engine

import (
	"github.com/cockroachdb/errors"
)

// Error classes. Every concrete error below is marked with exactly one of them.
var (
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrPrecondition         = errors.New("precondition failed")
	ErrNotFound             = errors.New("not found")
)

var (
	ErrNotEnoughTokens = errors.Mark(errors.New("not enough tokens"), ErrInsufficientResource)

	ErrEmptyTeam        = errors.Mark(errors.New("please form a team first"), ErrPrecondition)
	ErrTeamFull         = errors.Mark(errors.New("team is full"), ErrPrecondition)
	ErrDuplicateInTeam  = errors.Mark(errors.New("cannot have duplicate generals in team"), ErrPrecondition)
	ErrNotEnoughShards  = errors.Mark(errors.New("not enough shards"), ErrPrecondition)
	ErrAlreadySignedIn  = errors.Mark(errors.New("already signed in today"), ErrPrecondition)
	ErrEquipmentInUse   = errors.Mark(errors.New("equipment is attached to another general"), ErrPrecondition)
	ErrEmptyCatalogTier = errors.Mark(errors.New("no catalog entry for tier"), ErrPrecondition)

	ErrPlayerNotFound    = errors.Mark(errors.New("player not found"), ErrNotFound)
	ErrGeneralNotFound   = errors.Mark(errors.New("general not found"), ErrNotFound)
	ErrEquipmentNotFound = errors.Mark(errors.New("equipment not found"), ErrNotFound)
	ErrCampaignNotFound  = errors.Mark(errors.New("campaign not found"), ErrNotFound)
)
