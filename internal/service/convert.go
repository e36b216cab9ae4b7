package service

import (
	"github.com/mmynk/docelucro/internal/calculator"
	"github.com/mmynk/docelucro/internal/currency"
	"github.com/mmynk/docelucro/internal/models"
	"github.com/mmynk/docelucro/internal/suggest"
	"github.com/mmynk/docelucro/pkg/api"
)

func toAPIUser(user *models.User) *api.User {
	return &api.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   api.NewTimestamp(user.CreatedAt),
	}
}

func toAPIIngredient(ing *models.Ingredient) *api.Ingredient {
	// Corrupted records are still listed so they can be fixed or deleted.
	unitPrice, _ := calculator.UnitPrice(*ing)
	return &api.Ingredient{
		ID:              ing.ID,
		Name:            ing.Name,
		PackageQuantity: ing.PackageQuantity,
		PackageUnit:     string(ing.PackageUnit),
		Price:           ing.Price,
		PriceFormatted:  currency.Format(ing.Price),
		UnitPrice:       unitPrice,
		CreatedAt:       api.NewTimestamp(ing.CreatedAt),
		UpdatedAt:       api.NewTimestamp(ing.UpdatedAt),
	}
}

func toAPIRecipeItem(item models.RecipeItem) *api.RecipeItem {
	label := calculator.Label(item.DisplayUnit)
	if label == "" {
		label = string(item.DisplayUnit)
	}
	return &api.RecipeItem{
		ID:               item.ID,
		IngredientID:     item.IngredientID,
		IngredientName:   item.IngredientName,
		DisplayQuantity:  item.DisplayQuantity,
		DisplayUnit:      string(item.DisplayUnit),
		DisplayUnitLabel: label,
		BaseQuantity:     item.BaseQuantity,
		Cost:             item.Cost,
		CostFormatted:    currency.Format(item.Cost),
	}
}

// toAPIRecipe renders a breakdown from the item snapshots and parameters.
func toAPIRecipe(id, name string, items []models.RecipeItem, params calculator.Parameters, totals calculator.Totals) *api.Recipe {
	out := &api.Recipe{
		ID:                       id,
		Name:                     name,
		Items:                    make([]*api.RecipeItem, 0, len(items)),
		VariableCostsPercentage:  params.VariableCostsPercentage,
		PackagingCost:            params.PackagingCost,
		ProfitMargin:             params.ProfitMargin,
		IngredientsCost:          totals.IngredientsCost,
		TotalCost:                totals.TotalCost,
		SalePrice:                totals.SalePrice,
		IngredientsCostFormatted: currency.Format(totals.IngredientsCost),
		TotalCostFormatted:       currency.Format(totals.TotalCost),
		SalePriceFormatted:       currency.Format(totals.SalePrice),
	}
	for _, item := range items {
		out.Items = append(out.Items, toAPIRecipeItem(item))
	}
	return out
}

// toAPISavedRecipe renders a stored recipe. Total cost and sale price are
// the values stored at save time.
func toAPISavedRecipe(r *models.Recipe) *api.Recipe {
	params := calculator.Parameters{
		VariableCostsPercentage: r.VariableCostsPercentage,
		PackagingCost:           r.PackagingCost,
		ProfitMargin:            r.ProfitMargin,
	}
	totals := calculator.CalculateTotals(r.Items, params)
	totals.TotalCost = r.TotalCost
	totals.SalePrice = r.SalePrice

	out := toAPIRecipe(r.ID, r.Name, r.Items, params, totals)
	out.CreatedAt = api.NewTimestamp(r.CreatedAt)
	out.UpdatedAt = api.NewTimestamp(r.UpdatedAt)
	return out
}

func toAPISuggestions(result *suggest.Result) *api.SuggestRecipesResponse {
	out := &api.SuggestRecipesResponse{
		SuggestedRecipes: make([]*api.SuggestedRecipe, 0, len(result.SuggestedRecipes)),
		Cached:           result.Cached,
	}
	for _, r := range result.SuggestedRecipes {
		recipe := &api.SuggestedRecipe{
			RecipeName:  r.RecipeName,
			Ingredients: make([]*api.SuggestedIngredient, 0, len(r.Ingredients)),
		}
		for _, ing := range r.Ingredients {
			recipe.Ingredients = append(recipe.Ingredients, &api.SuggestedIngredient{
				Name:     ing.Name,
				Quantity: ing.Quantity,
				Unit:     ing.Unit,
			})
		}
		out.SuggestedRecipes = append(out.SuggestedRecipes, recipe)
	}
	return out
}

func fromAPISuggestion(in *api.SuggestedRecipe) suggest.SuggestedRecipe {
	out := suggest.SuggestedRecipe{RecipeName: in.RecipeName}
	for _, ing := range in.Ingredients {
		if ing == nil {
			continue
		}
		out.Ingredients = append(out.Ingredients, suggest.SuggestedIngredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return out
}
