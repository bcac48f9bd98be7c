// huffpack compresses text files with a per-character Huffman code.
//
// Usage:
//
//	huffpack encode [flags] <source> <destination>
//	huffpack decode [flags] <source> <destination>
//	huffpack compress [flags] <file>[,<file>...] [<file>...]
//	huffpack inspect [flags] <container>
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const version = "0.3.0"

var Commands = [...]string{"encode", "decode", "compress", "inspect", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Please provide a command")
		printUsage(stderr)
		return 2
	}
	command, rest := args[0], args[1:]
	var err error
	switch command {
	case "encode":
		err = encodeCmd(rest, stdout, stderr)
	case "decode":
		err = decodeCmd(rest, stdout, stderr)
	case "compress":
		err = compressCmd(rest, stdout, stderr)
	case "inspect":
		err = inspectCmd(rest, stdout, stderr)
	case "version", "--version":
		fmt.Fprintf(stdout, "huffpack %s\n", version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if isUsageError(err) {
			return 2
		}
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `huffpack - Huffman text compressor

USAGE
    huffpack <command> [flags] <args>

COMMANDS
    %s

    encode    Compress <source> into the container <destination>
    decode    Restore the text in container <source> to <destination>
    compress  Compress each file to <file><outfileext>
    inspect   Describe a container without decoding it

FLAGS
    --config string   YAML config file (or HUFFPACK_CONFIG)
    --progress        Show a progress bar while encoding
    --verify          Decode each container before writing it
    --no-color        Plain report output
    --debug           Debug logging (or HUFFPACK_DEBUG=1)

ENVIRONMENT
    HUFFPACK_CONFIG   Path of the config file
    HUFFPACK_DEBUG    Enable debug logging
`, strings.Join(Commands[:], ", "))
}

func trimSpace(s []string) {
	for i := range s {
		s[i] = strings.TrimSpace(s[i])
	}
}

func deleteFiles(files []string) error {
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return err
		}
	}
	return nil
}
