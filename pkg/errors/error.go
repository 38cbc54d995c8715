package errors

import (
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// OrderInvalidSymbol is returned when a command names an unknown or malformed symbol.
	OrderInvalidSymbol ErrorCode = "order_invalid_symbol"
	// OrderInvalidSide is returned for a side other than buy/sell.
	OrderInvalidSide ErrorCode = "order_invalid_side"
	// OrderInvalidType is returned for an unsupported order kind.
	OrderInvalidType ErrorCode = "order_invalid_type"
	// OrderInvalidTimeInForce is returned for a time-in-force other than GTC/IOC/FOK.
	OrderInvalidTimeInForce ErrorCode = "order_invalid_time_in_force"
	// OrderInvalidQuantity is returned for non-positive or too small quantities.
	OrderInvalidQuantity ErrorCode = "order_invalid_quantity"
	// OrderInvalidPrice is returned for missing or non-positive prices.
	OrderInvalidPrice ErrorCode = "order_invalid_price"
	// OrderInvalidPrecision is returned when a value has more decimals than the market allows.
	OrderInvalidPrecision ErrorCode = "order_invalid_precision"
	// OrderInvalidStop is returned when stop price or condition are missing or malformed.
	OrderInvalidStop ErrorCode = "order_invalid_stop"
	// OrderMissingUser is returned when the command carries no user id.
	OrderMissingUser ErrorCode = "order_missing_user"
	// OrderMissingID is returned when a cancel command carries no order id.
	OrderMissingID ErrorCode = "order_missing_id"
	// OrderUnknownCommand is returned for a command code the engine does not handle.
	OrderUnknownCommand ErrorCode = "order_unknown_command"
	// UserTradingDisabled is returned when the user is not allowed to trade.
	UserTradingDisabled ErrorCode = "user_trading_disabled"
	// MarketTradingDisabled is returned when the market is closed for new orders.
	MarketTradingDisabled ErrorCode = "market_trading_disabled"

	// RouterAppendError is returned when a command could not be appended to the shard log.
	RouterAppendError ErrorCode = "router_append_error"
	// RouterSymbolPaused is returned while a symbol is being moved to another shard.
	RouterSymbolPaused ErrorCode = "router_symbol_paused"
	// RouterUnknownShard is returned when a shard id is not served.
	RouterUnknownShard ErrorCode = "router_unknown_shard"

	// LedgerStoreError represents a failure in the balance store.
	LedgerStoreError ErrorCode = "ledger_store_error"
	// SnapshotStoreError represents a failure when persisting or loading a shard snapshot.
	SnapshotStoreError ErrorCode = "snapshot_store_error"
	// PublishError represents a failure when publishing an outbound event.
	PublishError ErrorCode = "publish_error"
	// SettingsError represents an invalid or unreadable settings file.
	SettingsError ErrorCode = "settings_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisHSetError represents an error when setting fields in a hash in Redis.
	RedisHSetError ErrorCode = "redis_hset_error"
	// RedisHDelError represents an error when deleting fields from a hash in Redis.
	RedisHDelError ErrorCode = "redis_hdel_error"
	// RedisZAddError represents an error when adding members to a sorted set in Redis.
	RedisZAddError ErrorCode = "redis_zadd_error"
	// RedisZRemError represents an error when removing members from a sorted set in Redis.
	RedisZRemError ErrorCode = "redis_zrem_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
)

// String returns the code as plain string, the form stored in ErrorDetails.
func (c ErrorCode) String() string {
	return string(c)
}

// BaseError is an `error` type containing an array of ErrorDetails.
// Validation collects every offending field into one BaseError so the
// caller sees all problems of a command at once.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// Add appends a detail built from code, field and message.
func (b *BaseError) Add(code ErrorCode, field, message string) {
	b.details = append(b.details, NewErrorDetails(message, code.String(), field))
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// ErrOrNil returns nil when no detail was collected, so callers can
// `return verr.ErrOrNil()` without a typed-nil error leaking out.
func (b *BaseError) ErrOrNil() error {
	if b == nil || len(b.details) == 0 {
		return nil
	}
	return b
}

// Error implement error interface
func (b *BaseError) Error() string {
	var sb strings.Builder
	sb.WriteString("Error on\n")
	for _, err := range b.details {
		sb.WriteString("code: ")
		sb.WriteString(err.Code)
		sb.WriteString("; error: ")
		sb.WriteString(err.Error())
		sb.WriteString("; field: ")
		sb.WriteString(err.Field)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// PrependFields prepend all field on ErrorDetails with given prefix. Will skip ErrorDetail without field
func (b *BaseError) PrependFields(prefix string) {
	for _, d := range b.details {
		if d.Field == "" {
			continue
		}
		d.Field = prefix + d.Field
	}
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.details {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Fields groups detail messages by field, the shape returned by the HTTP API.
func (b *BaseError) Fields() map[string][]string {
	out := make(map[string][]string, len(b.details))
	for _, d := range b.details {
		out[d.Field] = append(out[d.Field], d.Message)
	}
	return out
}
