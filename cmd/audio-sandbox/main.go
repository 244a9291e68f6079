package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/posaudio/audio"
	"github.com/lixenwraith/posaudio/mixer"
	"github.com/lixenwraith/posaudio/service"
)

var (
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/audio-sandbox.log")
	channelsFlag = flag.Int("channels", 0, "Voice table size (0 = config default)")
	musicFlag    = flag.String("music", "", "Music file (wav, mp3, ogg, aiff); procedural song if empty")
	soundsFlag   = flag.String("sounds", "", "Directory of sound files to preload")
	muteFlag     = flag.Bool("mute", false, "Run without opening the audio device")
)

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}
	logger := log.Default()

	cfg := audio.LoadAudioConfig()
	if *channelsFlag > 0 {
		cfg.Channels = *channelsFlag
	}
	if *muteFlag {
		cfg.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	hub := service.NewHub()
	mixerSvc := mixer.NewService()
	audioSvc := audio.NewService(mixerSvc)
	for _, svc := range []service.Service{mixerSvc, audioSvc} {
		if err := hub.Register(svc); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to register service: %v\n", err)
			os.Exit(1)
		}
	}
	if err := hub.InitAll(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize services: %v\n", err)
		os.Exit(1)
	}
	if err := hub.StartAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start services: %v\n", err)
		os.Exit(1)
	}
	defer hub.StopAll()

	if mixerSvc.IsDisabled() {
		logger.Printf("sandbox: audio device disabled, running silent")
	}

	manager, err := audioSvc.Manager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Audio manager unavailable: %v\n", err)
		os.Exit(1)
	}

	rate := mixerSvc.Beep().Format().SampleRate
	lib, err := buildLibrary(*soundsFlag, rate, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load sounds: %v\n", err)
		os.Exit(1)
	}
	song, err := loadSong(*musicFlag, rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load music: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}

	// Restore the terminal before reporting a crash
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mAUDIO SANDBOX CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	sandbox, err := NewSandbox(screen, manager, mixerSvc.Beep(), lib, song, logger)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to build sandbox: %v\n", err)
		os.Exit(1)
	}
	sandbox.run()
}
