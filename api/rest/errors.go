package rest

// txError is a sentinel error raised inside a database transaction to pick
// the HTTP status after rollback.
type txError struct{ msg string }

func (e *txError) Error() string { return e.msg }

var (
	errCharacterNotFound = &txError{"character not found"}
	errNotOwner          = &txError{"character does not belong to you"}
	errItemNotFound      = &txError{"item does not exist"}
	errNotInInventory    = &txError{"item is not in the inventory"}
	errAlreadyEquipped   = &txError{"item is already equipped"}
	errNotEquipped       = &txError{"item is not equipped"}
	errItemEquipped      = &txError{"cannot sell an equipped item"}
	errInsufficientFunds = &txError{"insufficient funds"}
	errInsufficientCount = &txError{"not enough items to sell"}
)
