package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mnohosten/versionvec/pkg/embedder"
	"github.com/mnohosten/versionvec/pkg/mvcc"
	"github.com/mnohosten/versionvec/pkg/vectorindex"
)

const (
	version = "0.1.0"
	banner  = `
╔══════════════════════════════════════╗
║           versionvec shell v%s    ║
║   MVCC record store + vector search   ║
╚══════════════════════════════════════╝

Type 'help' for available commands
Type 'exit' or 'quit' to exit

`
)

// CLI drives an in-process VersionedStore from stdin, binding each
// caller-chosen transaction name to the numeric transaction id the store
// assigns it.
type CLI struct {
	store    *mvcc.VersionedStore
	names    map[string]uint64
	defaultK int
	scanner  *bufio.Scanner
}

func NewCLI(embedderDim int, metric vectorindex.DistanceMetric, defaultK int) *CLI {
	index := vectorindex.New(metric)
	emb := embedder.New(embedderDim)
	return &CLI{
		store:    mvcc.NewVersionedStore(index, emb),
		names:    make(map[string]uint64),
		defaultK: defaultK,
		scanner:  bufio.NewScanner(os.Stdin),
	}
}

func (c *CLI) Run() error {
	fmt.Printf(banner, version)

	for {
		fmt.Print("versionvec> ")

		if !c.scanner.Scan() {
			break
		}

		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}

		if err := c.executeCommand(line); err != nil {
			if err.Error() == "exit" {
				fmt.Println("Goodbye!")
				return nil
			}
			fmt.Printf("error: %v\n", err)
		}
	}

	return c.scanner.Err()
}

func (c *CLI) executeCommand(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "help", "?":
		return c.showHelp()
	case "exit", "quit":
		return fmt.Errorf("exit")
	case "clear":
		fmt.Print("\033[H\033[2J")
		return nil
	case "version":
		fmt.Printf("versionvec shell version %s\n", version)
		return nil
	case "begin":
		return c.begin(parts)
	case "insert":
		return c.insert(parts)
	case "update":
		return c.update(parts)
	case "delete":
		return c.delete(parts)
	case "commit":
		return c.commit(parts)
	case "abort":
		return c.abort(parts)
	case "query":
		return c.query(parts)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

func (c *CLI) showHelp() error {
	help := `
versionvec shell commands:

  begin <name>                  start a new transaction, bound to <name>
  insert <name> <key> <value…>  insert a record under <key>
  update <name> <key> <value…>  update the record at <key>
  delete <name> <key>           delete the record at <key>
  commit <name>                 commit the transaction
  abort <name>                  abort the transaction
  query <name> <text…>          top-k similarity search over <name>'s snapshot

  help, ?                       show this help message
  exit, quit                    exit the shell
  clear                         clear the screen
  version                       show shell version

On WriteConflict/AlreadyExists/NotFound/NotActive, the offending
transaction is aborted automatically.
`
	fmt.Println(help)
	return nil
}

// resolve maps a user-chosen name to the transaction id the store assigned
// it at begin time.
func (c *CLI) resolve(name string) (uint64, bool) {
	id, ok := c.names[name]
	return id, ok
}

func (c *CLI) begin(parts []string) error {
	if len(parts) < 2 {
		return fmt.Errorf("usage: begin <name>")
	}
	name := parts[1]
	txnID := c.store.Begin()
	c.names[name] = txnID
	fmt.Printf("began %s T%d\n", name, txnID)
	return nil
}

func (c *CLI) insert(parts []string) error {
	if len(parts) < 4 {
		return fmt.Errorf("usage: insert <name> <key> <value…>")
	}
	name, key, value := parts[1], parts[2], strings.Join(parts[3:], " ")
	txnID, ok := c.resolve(name)
	if !ok {
		return fmt.Errorf("unknown transaction: %s", name)
	}

	if err := c.store.Insert(txnID, key, value); err != nil {
		c.abortOnError(txnID)
		return err
	}
	fmt.Println("ok")
	return nil
}

func (c *CLI) update(parts []string) error {
	if len(parts) < 4 {
		return fmt.Errorf("usage: update <name> <key> <value…>")
	}
	name, key, value := parts[1], parts[2], strings.Join(parts[3:], " ")
	txnID, ok := c.resolve(name)
	if !ok {
		return fmt.Errorf("unknown transaction: %s", name)
	}

	if err := c.store.Update(txnID, key, value); err != nil {
		c.abortOnError(txnID)
		return err
	}
	fmt.Println("ok")
	return nil
}

func (c *CLI) delete(parts []string) error {
	if len(parts) < 3 {
		return fmt.Errorf("usage: delete <name> <key>")
	}
	name, key := parts[1], parts[2]
	txnID, ok := c.resolve(name)
	if !ok {
		return fmt.Errorf("unknown transaction: %s", name)
	}

	if err := c.store.Delete(txnID, key); err != nil {
		c.abortOnError(txnID)
		return err
	}
	fmt.Println("ok")
	return nil
}

func (c *CLI) commit(parts []string) error {
	if len(parts) < 2 {
		return fmt.Errorf("usage: commit <name>")
	}
	name := parts[1]
	txnID, ok := c.resolve(name)
	if !ok {
		return fmt.Errorf("unknown transaction: %s", name)
	}

	if err := c.store.Commit(txnID); err != nil {
		return err
	}
	fmt.Printf("committed %s T%d\n", name, txnID)
	return nil
}

func (c *CLI) abort(parts []string) error {
	if len(parts) < 2 {
		return fmt.Errorf("usage: abort <name>")
	}
	name := parts[1]
	txnID, ok := c.resolve(name)
	if !ok {
		return fmt.Errorf("unknown transaction: %s", name)
	}

	if err := c.store.Abort(txnID); err != nil {
		return err
	}
	fmt.Printf("aborted %s T%d\n", name, txnID)
	return nil
}

func (c *CLI) query(parts []string) error {
	if len(parts) < 3 {
		return fmt.Errorf("usage: query <name> <text…>")
	}
	name, text := parts[1], strings.Join(parts[2:], " ")
	txnID, ok := c.resolve(name)
	if !ok {
		return fmt.Errorf("unknown transaction: %s", name)
	}

	versions, err := c.store.Read(txnID, text, c.defaultK)
	if err != nil {
		c.abortOnError(txnID)
		return err
	}

	for _, v := range versions {
		fmt.Printf("{%s: %s}\n", v.ID, v.Value)
	}
	return nil
}

// abortOnError implements spec.md §7's user-visible policy: on an error,
// the shell aborts the offending transaction. It runs before the failing
// command returns, so Run prints the error message after the abort.
// Abort errors here (e.g. the transaction already terminated) are not
// surfaced — the caller's own error is what gets printed.
func (c *CLI) abortOnError(txnID uint64) {
	_ = c.store.Abort(txnID)
}

func main() {
	embedderDim := 64
	metric := vectorindex.Cosine
	defaultK := 2

	if len(os.Args) > 1 {
		if d, err := strconv.Atoi(os.Args[1]); err == nil {
			embedderDim = d
		}
	}

	cli := NewCLI(embedderDim, metric, defaultK)
	if err := cli.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
