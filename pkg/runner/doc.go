/*
Package runner implements the headless execution loop for a decision dialog.

It is the bridge between the dialog state machine and line-oriented IO: it renders the
dialog, reads one operator command, translates it into dialog events and repeats until the
dialog submits or is cancelled. The interactive terminal surface lives in runner/tui.

# Key Components

  - Runner: The loop. Returns the reply (if any) once the dialog completes.
  - IOHandler: Decouples how commands are read and frames are shown.
  - TextHandler: Line mode for pipes and dumb terminals (see CommandHelp).
  - JSONHandler: JSON Lines frames and events for programmatic hosts.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	res, err := r.Run(ctx, dialog)
	if err != nil {
		log.Fatal(err)
	}
	if res.Submitted {
		fmt.Println(res.Reply)
	}
*/
package runner
