// Command lshbench builds LSH tables over ANN benchmark datasets and
// measures query throughput and recall.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
