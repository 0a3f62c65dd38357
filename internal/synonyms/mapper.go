package synonyms

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/repository"
	"github.com/joseph-ayodele/menuscan/internal/textnorm"
)

// maxSynonymLength bounds a single synonym token.
const maxSynonymLength = 64

// MapRequest is the input of Map. NewItemName is only read when CreateNewItem is set, and the
// item it names takes precedence over MenuItemID.
type MapRequest struct {
	Synonym       string     `json:"synonym"`
	MenuItemID    *uuid.UUID `json:"menu_item_id,omitempty"`
	CreateNewItem bool       `json:"create_new_item,omitempty"`
	NewItemName   string     `json:"new_item_name,omitempty"`
}

// MapResult is the stored synonym and what Map did to it.
type MapResult struct {
	Synonym entity.Synonym      `json:"synonym"`
	Action  constants.MapAction `json:"action"`
}

// Mapper creates, retargets and deletes synonyms. Each call runs in one store transaction.
type Mapper struct {
	store  repository.SynonymStore
	logger *slog.Logger
}

func NewMapper(store repository.SynonymStore, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{store: store, logger: logger}
}

// Map points a synonym at a menu item. Invalid requests are rejected before the store is touched.
func (m *Mapper) Map(ctx context.Context, req MapRequest) (MapResult, error) {
	v := common.NewValidator()
	v.Field("synonym", req.Synonym, common.NonEmpty, common.SingleToken, common.MaxLength(maxSynonymLength))
	if req.CreateNewItem {
		v.Field("new_item_name", req.NewItemName, common.NonEmpty)
	} else {
		v.Field("menu_item_id", req.MenuItemID, common.Required)
	}
	if v.HasErrors() {
		return MapResult{}, v.AppError()
	}

	text := textnorm.Fold(req.Synonym)
	var res MapResult
	var err error
	// A concurrent writer can insert the same synonym between our lookup and insert; the unique
	// index then rejects ours and a second pass sees the committed row.
	for attempt := 0; attempt < 2; attempt++ {
		res, err = m.mapOnce(ctx, text, req)
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
		m.logger.Warn("synonym map conflict, retrying", "synonym", text, "attempt", attempt+1)
	}
	if err != nil {
		return MapResult{}, m.storageError(err, "failed to map synonym")
	}

	m.logger.Info("synonym.map.ok", "synonym", res.Synonym.Text, "menu_item_id", res.Synonym.MenuItemID, "action", res.Action)
	return res, nil
}

func (m *Mapper) mapOnce(ctx context.Context, text string, req MapRequest) (MapResult, error) {
	var res MapResult
	err := m.store.InTx(ctx, func(tx repository.SynonymTx) error {
		target, err := m.resolveTarget(ctx, tx, req)
		if err != nil {
			return err
		}

		existing, err := tx.FindSynonym(ctx, text)
		if err != nil {
			return err
		}
		switch {
		case existing == nil:
			created, err := tx.CreateSynonym(ctx, text, target)
			if err != nil {
				return err
			}
			res = MapResult{Synonym: *created, Action: constants.ActionCreated}
		case existing.MenuItemID == target:
			res = MapResult{Synonym: *existing, Action: constants.ActionAlreadyExists}
		default:
			if err := tx.UpdateSynonymTarget(ctx, existing.ID, target); err != nil {
				return err
			}
			existing.MenuItemID = target
			res = MapResult{Synonym: *existing, Action: constants.ActionUpdated}
		}
		return nil
	})
	return res, err
}

// resolveTarget finds or creates the named item when requested, otherwise checks that the given
// item exists.
func (m *Mapper) resolveTarget(ctx context.Context, tx repository.SynonymTx, req MapRequest) (uuid.UUID, error) {
	if req.CreateNewItem {
		name := textnorm.Fold(req.NewItemName)
		item, err := tx.FindMenuItemByName(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		if item == nil {
			if item, err = tx.CreateMenuItem(ctx, name); err != nil {
				return uuid.Nil, err
			}
			m.logger.Info("menu item created", "menu_item_id", item.ID, "name", item.Name)
		}
		return item.ID, nil
	}

	item, err := tx.GetMenuItem(ctx, *req.MenuItemID)
	if err != nil {
		return uuid.Nil, err
	}
	if item == nil {
		return uuid.Nil, common.NotFound("menu item " + req.MenuItemID.String() + " does not exist")
	}
	return item.ID, nil
}

// Delete removes a synonym by id. An unknown id is NOT_FOUND and nothing changes.
func (m *Mapper) Delete(ctx context.Context, synonymID uuid.UUID) (*entity.Synonym, error) {
	if synonymID == uuid.Nil {
		return nil, common.MissingFields("synonym_id is required")
	}

	var removed *entity.Synonym
	err := m.store.InTx(ctx, func(tx repository.SynonymTx) error {
		syn, err := tx.GetSynonym(ctx, synonymID)
		if err != nil {
			return err
		}
		if syn == nil {
			return common.NotFound("synonym " + synonymID.String() + " does not exist")
		}
		if _, err := tx.DeleteSynonym(ctx, synonymID); err != nil {
			return err
		}
		removed = syn
		return nil
	})
	if err != nil {
		return nil, m.storageError(err, "failed to delete synonym")
	}

	m.logger.Info("synonym.delete.ok", "synonym_id", synonymID, "synonym", removed.Text)
	return removed, nil
}

// storageError passes application errors through and wraps everything else.
func (m *Mapper) storageError(err error, msg string) error {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return err
	}
	m.logger.Error(msg, "error", err)
	return common.NewAppError(common.CodeStorage, msg, errors.Join(common.ErrDatabase, err))
}
