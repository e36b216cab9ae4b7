package local

import "github.com/mmynk/docelucro/internal/models"

// On-disk record types. They are decoupled from models so the file format
// only changes on purpose.

type userRecord struct {
	ID           string `msgpack:"id"`
	Email        string `msgpack:"email"`
	DisplayName  string `msgpack:"display_name,omitempty"`
	PasswordHash string `msgpack:"password_hash"`
	CreatedAt    int64  `msgpack:"created_at"`
	UpdatedAt    int64  `msgpack:"updated_at"`
}

type ingredientRecord struct {
	ID              string  `msgpack:"id"`
	Name            string  `msgpack:"name"`
	PackageQuantity float64 `msgpack:"package_quantity"`
	PackageUnit     string  `msgpack:"package_unit"`
	Price           float64 `msgpack:"price"`
	CreatedAt       int64   `msgpack:"created_at"`
	UpdatedAt       int64   `msgpack:"updated_at,omitempty"`
}

type recipeRecord struct {
	ID                      string       `msgpack:"id"`
	Name                    string       `msgpack:"name"`
	Items                   []itemRecord `msgpack:"items,omitempty"`
	VariableCostsPercentage float64      `msgpack:"variable_costs_percentage"`
	PackagingCost           float64      `msgpack:"packaging_cost"`
	ProfitMargin            float64      `msgpack:"profit_margin"`
	TotalCost               float64      `msgpack:"total_cost"`
	SalePrice               float64      `msgpack:"sale_price"`
	CreatedAt               int64        `msgpack:"created_at"`
	UpdatedAt               int64        `msgpack:"updated_at,omitempty"`
}

type itemRecord struct {
	ID              string  `msgpack:"id"`
	IngredientID    string  `msgpack:"ingredient_id"`
	IngredientName  string  `msgpack:"ingredient_name"`
	DisplayQuantity float64 `msgpack:"display_quantity"`
	DisplayUnit     string  `msgpack:"display_unit"`
	BaseQuantity    float64 `msgpack:"base_quantity"`
	Cost            float64 `msgpack:"cost"`
}

func newUserRecord(u *models.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) model() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func newIngredientRecord(ing *models.Ingredient) ingredientRecord {
	return ingredientRecord{
		ID:              ing.ID,
		Name:            ing.Name,
		PackageQuantity: ing.PackageQuantity,
		PackageUnit:     string(ing.PackageUnit),
		Price:           ing.Price,
		CreatedAt:       ing.CreatedAt,
		UpdatedAt:       ing.UpdatedAt,
	}
}

func (r ingredientRecord) model(ownerID string) models.Ingredient {
	return models.Ingredient{
		ID:              r.ID,
		OwnerID:         ownerID,
		Name:            r.Name,
		PackageQuantity: r.PackageQuantity,
		PackageUnit:     models.PackageUnit(r.PackageUnit),
		Price:           r.Price,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func newRecipeRecord(r *models.Recipe) recipeRecord {
	items := make([]itemRecord, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, itemRecord{
			ID:              it.ID,
			IngredientID:    it.IngredientID,
			IngredientName:  it.IngredientName,
			DisplayQuantity: it.DisplayQuantity,
			DisplayUnit:     string(it.DisplayUnit),
			BaseQuantity:    it.BaseQuantity,
			Cost:            it.Cost,
		})
	}
	return recipeRecord{
		ID:                      r.ID,
		Name:                    r.Name,
		Items:                   items,
		VariableCostsPercentage: r.VariableCostsPercentage,
		PackagingCost:           r.PackagingCost,
		ProfitMargin:            r.ProfitMargin,
		TotalCost:               r.TotalCost,
		SalePrice:               r.SalePrice,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
}

func (r recipeRecord) model(ownerID string) models.Recipe {
	items := make([]models.RecipeItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, models.RecipeItem{
			ID:              it.ID,
			IngredientID:    it.IngredientID,
			IngredientName:  it.IngredientName,
			DisplayQuantity: it.DisplayQuantity,
			DisplayUnit:     models.DisplayUnit(it.DisplayUnit),
			BaseQuantity:    it.BaseQuantity,
			Cost:            it.Cost,
		})
	}
	return models.Recipe{
		ID:                      r.ID,
		OwnerID:                 ownerID,
		Name:                    r.Name,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
		Items:                   items,
		VariableCostsPercentage: r.VariableCostsPercentage,
		PackagingCost:           r.PackagingCost,
		ProfitMargin:            r.ProfitMargin,
		TotalCost:               r.TotalCost,
		SalePrice:               r.SalePrice,
	}
}
