package suggest

import "fmt"

const promptTemplate = `You are a recipe suggestion expert for a small bakery and confectionery business.
Given the kind of recipe the user wants and their current ingredient inventory, suggest recipes they can make.

Recipe type: %s
Ingredient inventory (JSON array of name and package quantity): %s

Respond with JSON only, no prose and no code fences, shaped exactly like:
{"suggestedRecipes":[{"recipeName":"string","ingredients":[{"name":"string","quantity":0,"unit":"string"}]}]}

"quantity" must be a number. "unit" is free text such as "gramas", "xícaras", "ml", "unidades" or "colher de sopa".
Use ingredient names exactly as they appear in the inventory whenever possible.`

func buildPrompt(description, inventoryJSON string) string {
	return fmt.Sprintf(promptTemplate, description, inventoryJSON)
}
