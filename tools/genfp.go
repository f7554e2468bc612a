package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
)

func main() {
	outputFile := flag.String("output", "", "Output matrix file path")
	rows := flag.Int("rows", 100, "Number of fingerprint rows")
	cols := flag.Int("cols", 1024, "Number of feature columns")
	density := flag.Float64("density", 0.1, "Probability of a set bit")
	delimiter := flag.String("delimiter", " ", "Cell delimiter")
	named := flag.Bool("named", true, "Emit row/column labels")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	if *outputFile == "" {
		log.Fatal("Usage: genfp -output <matrix.txt> -rows <n> -cols <n> [-density <p>] [-named]")
	}
	if *rows <= 0 || *cols <= 0 {
		log.Fatal("rows and cols must be positive")
	}
	if *density < 0 || *density > 1 {
		log.Fatal("density must be within [0, 1]")
	}

	fmt.Printf("Generating %dx%d fingerprint matrix (density %.2f) into %s...\n",
		*rows, *cols, *density, *outputFile)

	outFile, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer outFile.Close()

	writer := bufio.NewWriter(outFile)
	defer func() { _ = writer.Flush() }()

	rng := rand.New(rand.NewSource(*seed))

	// Fixed-width labels keep the lexicographic sort aligned with the
	// generation order.
	width := len(strconv.Itoa(*rows))
	colWidth := len(strconv.Itoa(*cols))

	if *named {
		for j := 1; j <= *cols; j++ {
			fmt.Fprintf(writer, "%sf%0*d", *delimiter, colWidth, j)
		}
		fmt.Fprintln(writer)
	}

	for i := 1; i <= *rows; i++ {
		if *named {
			fmt.Fprintf(writer, "mol%0*d", width, i)
		}
		for j := 0; j < *cols; j++ {
			bit := "0"
			if rng.Float64() < *density {
				bit = "1"
			}
			if *named || j > 0 {
				fmt.Fprint(writer, *delimiter)
			}
			fmt.Fprint(writer, bit)
		}
		fmt.Fprintln(writer)
	}

	fmt.Printf("Done. Wrote %d fingerprints.\n", *rows)
}
