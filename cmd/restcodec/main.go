package main

import (
	"fmt"
	"os"

	"github.com/erraggy/restcodec"
	"github.com/erraggy/restcodec/cmd/restcodec/commands"
)

var handlers = map[string]func([]string) error{
	"operations":  commands.HandleOperations,
	"serialize":   commands.HandleSerialize,
	"deserialize": commands.HandleDeserialize,
	"mcp":         commands.HandleMCP,
}

// commandNames lists every command for typo suggestions.
var commandNames = []string{"operations", "serialize", "deserialize", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("restcodec v%s\n", restcodec.Version())
		fmt.Printf("commit: %s\n", restcodec.Commit())
		fmt.Printf("built: %s\n", restcodec.BuildTime())
		fmt.Printf("go: %s\n", restcodec.GoVersion())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	handle, ok := handlers[command]
	if !ok {
		commands.Writef(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			commands.Writef(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		commands.Writef(os.Stderr, "\n")
		printUsage()
		os.Exit(1)
	}
	if err := handle(os.Args[2:]); err != nil {
		commands.Writef(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the known command closest to input, or "" when
// none is within an edit distance of two.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	usage := `restcodec - Build HTTP requests from service descriptions and read results back out of responses

Usage:
  restcodec <command> [options]

Commands:
  operations   List the operations of a service description
  serialize    Print the HTTP request an operation produces
  deserialize  Extract an operation's result from a raw HTTP response
  mcp          Run the MCP server over stdio
  version      Show version information
  help         Show this help message

Run 'restcodec <command> --help' for more information on a command.`

	fmt.Println(usage)
}
