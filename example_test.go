package lsh_test

import (
	"fmt"

	"github.com/hupe1980/lsh"
	"github.com/hupe1980/lsh/testutil"
)

func ExampleNewTable() {
	points := testutil.NewRNG(42).UnitVectors(1000, 64)

	params := lsh.Parameters{
		Dimension:        64,
		L:                10,
		DistanceFunction: lsh.NegativeInnerProduct,
		Family:           lsh.CrossPolytope,
		NumRotations:     1,
		Seed:             7,
	}
	if err := lsh.ComputeNumberOfHashFunctions[lsh.DenseVector](10, &params); err != nil {
		panic(err)
	}

	table, err := lsh.NewTable(points, params)
	if err != nil {
		panic(err)
	}

	key, err := table.FindClosest(points[123])
	if err != nil {
		panic(err)
	}
	fmt.Println(key)
	// Output: 123
}

func ExampleHyperplaneTable() {
	points := []lsh.DenseVector{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	table := lsh.HyperplaneTable[lsh.DenseVector](3).
		K(2).
		L(4).
		MustBuild(points)

	keys, err := table.FindKNearestNeighbors(lsh.DenseVector{0, 0.9, 0.1}, 1, lsh.WithNumProbes(16))
	if err != nil {
		panic(err)
	}
	fmt.Println(keys)
	// Output: [1]
}

func ExampleTable_QueryStatistics() {
	points := testutil.NewRNG(1).UnitVectors(100, 16)
	table := lsh.HyperplaneTable[lsh.DenseVector](16).K(6).MustBuild(points)

	for _, q := range points[:10] {
		if _, err := table.FindClosest(q); err != nil {
			panic(err)
		}
	}
	fmt.Println(table.QueryStatistics().NumQueries)
	// Output: 10
}
