// sanctum-lint walks a source tree and reports every import edge that
// crosses the layer boundaries disallowed by the access topology. Exit code
// 1 when violations exist, so CI can gate merges on it.
package main

import (
	"flag"
	"fmt"
	"os"

	"sanctum/internal/sanctum"
)

func main() {
	root := flag.String("root", ".", "source tree to analyze")
	flag.Parse()

	violations, err := sanctum.AnalyzeTree(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sanctum-lint: %v\n", err)
		os.Exit(2)
	}
	if len(violations) == 0 {
		fmt.Println("sanctum-lint: no boundary violations")
		return
	}
	for _, v := range violations {
		fmt.Fprintln(os.Stderr, v)
	}
	fmt.Fprintf(os.Stderr, "sanctum-lint: %d violation(s)\n", len(violations))
	os.Exit(1)
}
