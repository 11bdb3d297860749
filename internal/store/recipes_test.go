package store

import (
	"context"
	"testing"

	"kitchenlog/internal/db"
	"kitchenlog/internal/model"
)

func TestRecipeAggregateRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	uid := stockUser(t, database)

	created, err := CreateRecipe(ctx, database, &model.Recipe{
		OwnerID:      uid,
		Title:        "Omelette",
		Description:  "Quick breakfast",
		CurrentLabel: "1.0",
		Versions: []model.RecipeVersion{{
			Seq:   1,
			Label: "1.0",
			Ingredients: []model.Ingredient{
				{Name: "Egg", Amount: "3", IsRequired: true},
			},
			Steps:       []string{"Whisk", "Fry"},
			PrivateMemo: "low heat",
		}},
		NextSeq: 2,
	})
	if err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	got, err := GetRecipe(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	if got.CurrentLabel != "1.0" || got.NextSeq != 2 {
		t.Errorf("unexpected aggregate: %+v", got)
	}
	if len(got.Versions) != 1 {
		t.Fatalf("expected 1 version, got %d", len(got.Versions))
	}
	v := got.Versions[0]
	if v.Seq != 1 || v.Label != "1.0" || v.PrivateMemo != "low heat" {
		t.Errorf("version round trip: %+v", v)
	}
	if len(v.Ingredients) != 1 || !v.Ingredients[0].IsRequired {
		t.Errorf("ingredient round trip: %+v", v.Ingredients)
	}
}

func TestUpdateRecipeReplacesVersions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	uid := stockUser(t, database)

	recipe, _ := CreateRecipe(ctx, database, &model.Recipe{
		OwnerID: uid, Title: "Stew", CurrentLabel: "1.0",
		Versions: []model.RecipeVersion{{Seq: 1, Label: "1.0"}},
		NextSeq:  2,
	})

	recipe.Versions = append(recipe.Versions, model.RecipeVersion{Seq: 2, Label: "1.1"})
	recipe.CurrentLabel = "1.1"
	recipe.NextSeq = 3
	if err := UpdateRecipe(ctx, database, recipe); err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}

	got, _ := GetRecipe(ctx, database, recipe.ID)
	if len(got.Versions) != 2 || got.CurrentLabel != "1.1" || got.NextSeq != 3 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestListRecipesScopedToOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	uid := stockUser(t, database)
	other, _ := CreateUser(ctx, database, "guest", "Guest", "hash")

	CreateRecipe(ctx, database, &model.Recipe{
		OwnerID: uid, Title: "Mine", CurrentLabel: "1.0",
		Versions: []model.RecipeVersion{{Seq: 1, Label: "1.0"}}, NextSeq: 2,
	})

	mine, err := ListRecipes(ctx, database, uid)
	if err != nil {
		t.Fatalf("ListRecipes: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("expected 1 recipe, got %d", len(mine))
	}

	theirs, _ := ListRecipes(ctx, database, other.ID)
	if len(theirs) != 0 {
		t.Errorf("expected no recipes for other owner, got %d", len(theirs))
	}
}

func TestDeleteRecipe(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	uid := stockUser(t, database)

	recipe, _ := CreateRecipe(ctx, database, &model.Recipe{
		OwnerID: uid, Title: "Gone", CurrentLabel: "1.0",
		Versions: []model.RecipeVersion{{Seq: 1, Label: "1.0"}}, NextSeq: 2,
	})
	if err := DeleteRecipe(ctx, database, recipe.ID); err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}
	got, _ := GetRecipe(ctx, database, recipe.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}
