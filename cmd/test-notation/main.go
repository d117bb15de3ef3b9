// Test program to demonstrate local notation checks and the fallback path.
// It needs no generation service: everything here runs offline.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/essayfb/internal/feedback"
	"github.com/ppiankov/essayfb/internal/notation"
	"github.com/ppiankov/essayfb/internal/segment"
)

const sample = `Newton's second law is usually written as $F = ma$. Energy and mass are related by $E = mc^{2$ in special relativity.

The quadratic formula \(x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}\) solves any quadratic. Some writers prefer \[\sum_{i=1}^{n} i = \frac{n(n+1)}{2\] for sums.

Plain sentences without notation are never checked.`

func main() {
	text := sample
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		text = string(data)
	}

	fmt.Println("=== Notation Check Test ===")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sentences := segment.Segment(text)
	validator := notation.NewValidator(nil, 4)

	for _, s := range sentences {
		fmt.Printf("[%d] %s\n", s.ID, s.Content)
		spans := segment.ExtractMath(s.Content)
		if len(spans) == 0 {
			fmt.Println("    - no notation")
			continue
		}
		entries := validator.CheckSentence(s)
		if len(entries) == 0 {
			fmt.Printf("    ✓ %d expression(s) render\n", len(spans))
			continue
		}
		for _, e := range entries {
			fmt.Printf("    ⚠️  %s\n", e.Why)
		}
	}

	entries, err := validator.Validate(ctx, sentences)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Sentences: %d, notation issues: %d\n", len(sentences), len(entries))

	// The same essay with no generation service reaches its minimum through
	// local synthesis alone.
	result := feedback.NewGenerator(nil).Generate(ctx, sentences)
	fmt.Printf("Offline feedback: %d items (minimum %d)\n", len(result.Items), result.Minimum)
	fmt.Println(result.Summary)

	fmt.Println("\n=== Test Complete ===")
}
