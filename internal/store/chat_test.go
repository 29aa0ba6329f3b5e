package store

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"sarap_local_back_end/internal/models"
	"sarap_local_back_end/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolesRows(a uuid.UUID, roleA string, b uuid.UUID, roleB string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "role"}).
		AddRow(a, roleA).
		AddRow(b, roleB)
}

func TestSendMessageCreatesConversation(t *testing.T) {
	mock := newMockDB(t)

	customerID := uuid.New()
	vendorID := uuid.New()
	conversationID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, role FROM users")).
		WillReturnRows(rolesRows(customerID, models.RoleCustomer, vendorID, models.RoleVendor))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO conversations")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(conversationID))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	message, err := SendMessage(customerID, vendorID, "Meron pa bang adobo?")

	require.NoError(t, err)
	assert.Equal(t, conversationID, message.ConversationID)
	assert.Equal(t, customerID, message.SenderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageRejectsSameRole(t *testing.T) {
	mock := newMockDB(t)

	a := uuid.New()
	b := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, role FROM users")).
		WillReturnRows(rolesRows(a, models.RoleCustomer, b, models.RoleCustomer))

	_, err := SendMessage(a, b, "Salut")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestSendMessageValidation(t *testing.T) {
	_, err := SendMessage(uuid.New(), uuid.New(), "")
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Errors, "content")

	same := uuid.New()
	_, err = SendMessage(same, same, "bonjour")
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Errors, "recipient_id")
}

func TestGetMessagesForbiddenForOutsider(t *testing.T) {
	mock := newMockDB(t)

	conversationID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, customer_id, vendor_id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "vendor_id", "created_at", "updated_at"}).
			AddRow(conversationID, uuid.New(), uuid.New(), now, now))

	_, err := GetMessages(uuid.New(), conversationID)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}
