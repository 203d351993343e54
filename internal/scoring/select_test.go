package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-nightwatch/internal/sky"
)

func scored(id string, cat sky.Category, sub sky.Subtype, total float64) ScoredObject {
	return ScoredObject{
		Object:     sky.Object{ID: id, Category: cat, Subtype: sub},
		TotalScore: total,
	}
}

func ids(list []ScoredObject) []string {
	out := make([]string, len(list))
	for i, so := range list {
		out[i] = so.Object.ID
	}
	return out
}

func TestRankStable(t *testing.T) {
	list := []ScoredObject{
		scored("b", sky.CategoryDSO, sky.SubtypeGalaxy, 100),
		scored("a", sky.CategoryDSO, sky.SubtypeGalaxy, 100),
		scored("c", sky.CategoryDSO, sky.SubtypeGalaxy, 120),
	}
	Rank(list)
	assert.Equal(t, []string{"c", "a", "b"}, ids(list))
}

func TestSelectBestSubtypeCap(t *testing.T) {
	var list []ScoredObject
	for i := 0; i < 6; i++ {
		list = append(list, scored(fmt.Sprintf("gal%d", i), sky.CategoryDSO, sky.SubtypeGalaxy, 150-float64(i)))
	}
	list = append(list,
		scored("oc1", sky.CategoryDSO, sky.SubtypeOpenCluster, 90),
		scored("oc2", sky.CategoryDSO, sky.SubtypeOpenCluster, 80),
	)

	got := SelectBest(list, DefaultSelection(10))
	assert.Equal(t, []string{"gal0", "gal1", "gal2", "oc1", "oc2"}, ids(got))
}

func TestSelectBestExceptionalIgnoresCap(t *testing.T) {
	var list []ScoredObject
	for i := 0; i < 5; i++ {
		list = append(list, scored(fmt.Sprintf("gal%d", i), sky.CategoryDSO, sky.SubtypeGalaxy, 190-float64(i)))
	}
	got := SelectBest(list, DefaultSelection(10))
	assert.Len(t, got, 5)
}

func TestSelectBestEnsuresCategories(t *testing.T) {
	var list []ScoredObject
	for i := 0; i < 5; i++ {
		list = append(list, scored(fmt.Sprintf("p%d", i), sky.CategoryPlanet, sky.Subtype(fmt.Sprintf("s%d", i)), 170-float64(i)))
	}
	list = append(list, scored("comet", sky.CategoryComet, "", 61))

	got := SelectBest(list, DefaultSelection(3))
	require.Len(t, got, 3)
	assert.Equal(t, []string{"p0", "p1", "comet"}, ids(got))
}

func TestSelectBestMinScore(t *testing.T) {
	list := []ScoredObject{
		scored("good", sky.CategoryDSO, sky.SubtypeGalaxy, 75),
		scored("weak", sky.CategoryDSO, sky.SubtypeNebula, 40),
	}
	got := SelectBest(list, DefaultSelection(10))
	assert.Equal(t, []string{"good"}, ids(got))
}

func TestSelectBestNothingQualifies(t *testing.T) {
	list := []ScoredObject{
		scored("a", sky.CategoryDSO, sky.SubtypeGalaxy, 20),
		scored("b", sky.CategoryDSO, sky.SubtypeGalaxy, 45),
		scored("c", sky.CategoryDSO, sky.SubtypeGalaxy, 30),
	}
	got := SelectBest(list, DefaultSelection(2))
	assert.Equal(t, []string{"b", "c"}, ids(got))
}

func TestSelectBestEmptyAndInputUntouched(t *testing.T) {
	assert.Empty(t, SelectBest(nil, DefaultSelection(5)))

	list := []ScoredObject{
		scored("low", sky.CategoryDSO, sky.SubtypeGalaxy, 70),
		scored("high", sky.CategoryDSO, sky.SubtypeGalaxy, 90),
	}
	_ = SelectBest(list, DefaultSelection(5))
	assert.Equal(t, "low", list[0].Object.ID)
}
