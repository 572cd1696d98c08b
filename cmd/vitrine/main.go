package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mlindgren/vitrine/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "navigate":
		os.Exit(runNavigate(os.Args[2:]))
	case "screenshot":
		os.Exit(runScreenshot(os.Args[2:]))
	case "set-size":
		os.Exit(runSetSize(os.Args[2:]))
	case "set-scale":
		os.Exit(runSetScale(os.Args[2:]))
	case "set-title":
		os.Exit(runSetTitle(os.Args[2:]))
	case "run-script":
		os.Exit(runRunScript(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: vitrine <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run          Run the display daemon")
	fmt.Fprintln(w, "  status       Show daemon status")
	fmt.Fprintln(w, "  navigate     Load a layout page (e.g. 3.xlf.html)")
	fmt.Fprintln(w, "  screenshot   Request a PNG capture of the content surface")
	fmt.Fprintln(w, "  set-size     Apply window geometry (pos_x pos_y size_x size_y)")
	fmt.Fprintln(w, "  set-scale    Set the logical layout canvas (width height)")
	fmt.Fprintln(w, "  set-title    Set the window title")
	fmt.Fprintln(w, "  run-script   Inject JavaScript into the content context")
	fmt.Fprintln(w, "  mcp          Run the MCP control server on stdio")
	fmt.Fprintln(w, "  help         Show this help")
}

func runStatus(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: vitrine status")
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	mode := "windowed"
	if status.Fullscreen {
		mode = "fullscreen"
	}
	fmt.Printf("Window:    %dx%d+%d+%d (%s)\n",
		status.Width, status.Height, status.PosX, status.PosY, mode)
	fmt.Printf("Layout:    %dx%d\n", status.LayoutWidth, status.LayoutHeight)
	fmt.Printf("Renderer:  connected=%v\n", status.RendererConnected)
	fmt.Printf("Uptime:    %ds\n", status.UptimeSeconds)
	return 0
}

func runNavigate(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: vitrine navigate <path>")
		return 2
	}

	if err := ipc.NewClient().Navigate(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runScreenshot(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: vitrine screenshot")
		return 2
	}

	if err := ipc.NewClient().Screenshot(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println("screenshot requested")
	return 0
}

func runSetSize(args []string) int {
	if len(args) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: vitrine set-size <pos_x> <pos_y> <size_x> <size_y>")
		fmt.Fprintln(os.Stderr, "       all zero values request fullscreen")
		return 2
	}

	vals := make([]int, 4)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid value %q: %v\n", a, err)
			return 2
		}
		vals[i] = v
	}

	if err := ipc.NewClient().SetSize(vals[0], vals[1], vals[2], vals[3]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runSetScale(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: vitrine set-scale <width> <height>")
		return 2
	}

	w, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid width %q: %v\n", args[0], err)
		return 2
	}
	h, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid height %q: %v\n", args[1], err)
		return 2
	}

	if err := ipc.NewClient().SetScale(w, h); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runSetTitle(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: vitrine set-title <title>")
		return 2
	}

	if err := ipc.NewClient().SetTitle(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runRunScript(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: vitrine run-script <source>")
		return 2
	}

	if err := ipc.NewClient().RunScript(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
