package domain

var (
	MessageSuccessDownloadShoppingList = "shopping list generated"
	MessageFailedDownloadShoppingList  = "failed to generate shopping list"

	// ShoppingListFilename is what browsers save the report as.
	ShoppingListFilename = "shopping_list.txt"
)
