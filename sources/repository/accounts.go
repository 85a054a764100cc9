package repository

import (
	"context"
	"errors"
	"fmt"

	"blackcenter/sources/configuration"
	"blackcenter/sources/persistence/entities"
	"blackcenter/sources/tracing"

	"github.com/go-resty/resty/v2"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountsRepository struct {
	client *resty.Client
	config *configuration.Config
}

func NewAccountsRepository(client *resty.Client, config *configuration.Config) *AccountsRepository {
	return &AccountsRepository{client: client, config: config}
}

type documentList struct {
	Total     int64              `json:"total"`
	Documents []entities.Account `json:"documents"`
}

type documentPatch struct {
	Data entities.AccountPatch `json:"data"`
}

func (x *AccountsRepository) documentsPath() string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", x.config.Appwrite.DatabaseID, x.config.Appwrite.CollectionID)
}

// GetAccountByTelegramID resolves the account document owning the given
// external identity. Appwrite stores telegram ids as strings.
func (x *AccountsRepository) GetAccountByTelegramID(ctx context.Context, logger *tracing.Logger, telegramID string) (*entities.Account, error) {
	defer tracing.ProfilePoint(logger, "Accounts get by telegram id completed", "repository.accounts.get.by.telegram.id", tracing.UserId, telegramID)()

	var list documentList

	resp, err := x.client.R().
		SetContext(ctx).
		SetQueryParam("queries[]", fmt.Sprintf(`equal("telegram_id", ["%s"])`, telegramID)).
		SetResult(&list).
		Get(x.documentsPath())

	if err != nil {
		logger.E("Failed to query account documents", tracing.InnerError, err)
		return nil, fmt.Errorf("query account documents: %w", err)
	}

	if resp.IsError() {
		logger.E("Account query rejected by store", "status", resp.StatusCode())
		return nil, fmt.Errorf("query account documents: store returned %d", resp.StatusCode())
	}

	if list.Total == 0 || len(list.Documents) == 0 {
		logger.W("Account not found when expected")
		return nil, ErrAccountNotFound
	}

	account := list.Documents[0]
	logger.I("Account fetched", tracing.DocumentId, account.DocumentID)
	return &account, nil
}

// UpdateAccount patches mining_power and purchased_upgrade on an account
// document previously returned by GetAccountByTelegramID.
func (x *AccountsRepository) UpdateAccount(ctx context.Context, logger *tracing.Logger, documentID string, patch entities.AccountPatch) error {
	defer tracing.ProfilePoint(logger, "Accounts update completed", "repository.accounts.update", tracing.DocumentId, documentID)()

	resp, err := x.client.R().
		SetContext(ctx).
		SetBody(documentPatch{Data: patch}).
		Patch(x.documentsPath() + "/" + documentID)

	if err != nil {
		logger.E("Failed to update account document", tracing.InnerError, err)
		return fmt.Errorf("update account document: %w", err)
	}

	if resp.IsError() {
		logger.E("Account update rejected by store", "status", resp.StatusCode())
		return fmt.Errorf("update account document: store returned %d", resp.StatusCode())
	}

	logger.I("Account updated", tracing.MiningPower, patch.MiningPower)
	return nil
}
