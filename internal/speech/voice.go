package speech

import (
	"context"
	"os/exec"
	"runtime"
)

// Voice plays text aloud. Say blocks until playback ends or ctx is done.
type Voice interface {
	Say(ctx context.Context, text string) error
}

// CommandVoice speaks through an external program, passing the text as the
// last argument.
type CommandVoice struct {
	Command string
	Args    []string
}

// Say implements Voice.
func (v CommandVoice) Say(ctx context.Context, text string) error {
	args := append(append([]string{}, v.Args...), text)
	return exec.CommandContext(ctx, v.Command, args...).Run()
}

// DetectVoice picks a system voice. An explicit command wins; otherwise the
// platform default is used when installed. It returns nil when no voice is
// available.
func DetectVoice(command, voice string) Voice {
	if command != "" {
		if _, err := exec.LookPath(command); err != nil {
			return nil
		}
		var args []string
		if voice != "" {
			args = append(args, "-v", voice)
		}
		return CommandVoice{Command: command, Args: args}
	}

	switch runtime.GOOS {
	case "darwin":
		if voice == "" {
			voice = "Kyoko"
		}
		if _, err := exec.LookPath("say"); err == nil {
			return CommandVoice{Command: "say", Args: []string{"-v", voice}}
		}
	case "linux":
		if voice == "" {
			voice = "ja"
		}
		for _, cmd := range []string{"espeak-ng", "espeak"} {
			if _, err := exec.LookPath(cmd); err == nil {
				return CommandVoice{Command: cmd, Args: []string{"-v", voice}}
			}
		}
	}
	return nil
}
