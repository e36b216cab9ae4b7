// Package models defines the core domain models for docelucro.
//
// # Models
//
//   - Ingredient: a purchasable input registered by the user (package size + price)
//   - Recipe: a named composition of line items with cost parameters
//   - RecipeItem: one line of a recipe, holding a cost snapshot
//   - User: a registered account; every ingredient and recipe belongs to one
//
// # Design Principles
//
//  1. **Snapshots, not references**: a RecipeItem stores the ingredient id, its
//     name at the time it was added, and the computed base quantity and cost.
//     Editing or deleting the ingredient later never changes a saved recipe.
//  2. **Per-account ownership**: records carry an OwnerID and stores always
//     filter by it.
//  3. **Avoid circular references**: relationships use ID strings, never pointers.
//
// Timestamps are Unix milliseconds.
package models
