package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ringwatch/gostatus/internal/api"
	"github.com/ringwatch/gostatus/internal/downtime"
	"github.com/ringwatch/gostatus/internal/livestatus"
	"github.com/ringwatch/gostatus/internal/livestatus/refschema"
	"github.com/ringwatch/gostatus/internal/logging"
	"github.com/ringwatch/gostatus/internal/objects"
	"github.com/ringwatch/gostatus/internal/trigger"
)

const version = "1.0.0"

func main() {
	var socketPath, tcpAddr, logFile string
	var verbose bool

	// Manual arg parsing, matching the rest of this codebase's flag style.
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-socket":
			i++
			if i < len(args) {
				socketPath = args[i]
			}
		case "-tcp":
			i++
			if i < len(args) {
				tcpAddr = args[i]
			}
		case "-log":
			i++
			if i < len(args) {
				logFile = args[i]
			}
		case "-v", "--verbose":
			verbose = true
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "-V", "--version":
			fmt.Printf("livestatusd %s\n", version)
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
			printUsage()
			os.Exit(1)
		}
	}

	if socketPath == "" && tcpAddr == "" {
		socketPath = "/tmp/livestatus.sock"
	}
	if logFile == "" {
		logFile = "/tmp/livestatusd.log"
	}

	nagLogger, err := logging.NewLogger(logFile, "", objects.LogRotationNone, false)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer nagLogger.Close()
	nagLogger.SetStdout(true)
	if verbose {
		nagLogger.Verbosity = logging.VerboseLivestatus | logging.VerboseWait
	}

	nagLogger.Log("livestatusd %s starting... (PID=%d)", version, os.Getpid())

	store := demoStore()
	globalState := &objects.GlobalState{
		EnableNotifications:  true,
		ExecuteServiceChecks: true,
		ExecuteHostChecks:    true,
		ProgramStart:         time.Now(),
		PID:                  os.Getpid(),
		IntervalLength:       60,
	}

	commentMgr := downtime.NewCommentManager(1)
	downtimeMgr := downtime.NewDowntimeManager(1, commentMgr, store)
	downtimeMgr.SetLogger(nagLogger)

	provider := &api.StateProvider{
		Store:     store,
		Global:    globalState,
		Comments:  commentMgr,
		Downtimes: downtimeMgr,
		Logger:    nagLogger,
		LogFile:   logFile,
	}

	registry := refschema.NewRegistry(provider)
	triggers := trigger.NewRegistry()

	server := livestatus.New(socketPath, tcpAddr, registry, triggers, nagLogger)
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start livestatus server: %v", err)
	}
	if socketPath != "" {
		nagLogger.Log("Livestatus API listening on unix:%s", socketPath)
	}
	if tcpAddr != "" {
		nagLogger.Log("Livestatus API listening on tcp:%s", tcpAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	nagLogger.Log("Caught %s, shutting down...", sig)

	server.Stop()
	nagLogger.Log("Successfully shutdown... (PID=%d)", os.Getpid())
}

func printUsage() {
	fmt.Printf("\nlivestatusd %s\n", version)
	fmt.Println()
	fmt.Println("Usage: livestatusd [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -socket <path>   Unix domain socket to listen on (default /tmp/livestatus.sock)")
	fmt.Println("  -tcp <addr>      TCP address to listen on, e.g. 127.0.0.1:6557")
	fmt.Println("  -log <path>      Log file path (default /tmp/livestatusd.log)")
	fmt.Println("  -v, --verbose    Log every query and wait-coordinator event")
	fmt.Println("  -V, --version    Print version information")
	fmt.Println("  -h, --help       Print this help message")
	fmt.Println()
}

// demoStore builds a small, self-consistent fixture so the server has
// something to answer GET hosts/GET services queries against. A real
// deployment wires registry tables against a live object store instead.
func demoStore() *objects.ObjectStore {
	store := objects.NewObjectStore()

	admin := &objects.Contact{Name: "admin", Alias: "Administrator", Email: "admin@example.com"}
	store.AddContact(admin)

	webHost := &objects.Host{
		Name:                 "web1",
		Alias:                "Web Server 1",
		Address:              "10.0.0.11",
		CurrentState:         objects.HostUp,
		StateType:            objects.StateTypeHard,
		HasBeenChecked:       true,
		MaxCheckAttempts:     3,
		CheckInterval:        5,
		RetryInterval:        1,
		PluginOutput:         "PING OK - Packet loss = 0%, RTA = 0.5 ms",
		LastCheck:            time.Now(),
		NextCheck:            time.Now().Add(5 * time.Minute),
		LastStateChange:      time.Now().Add(-24 * time.Hour),
		NotificationsEnabled: true,
		ActiveChecksEnabled:  true,
		Contacts:             []*objects.Contact{admin},
	}
	store.AddHost(webHost)

	dbHost := &objects.Host{
		Name:                 "db1",
		Alias:                "Database Server 1",
		Address:              "10.0.0.12",
		CurrentState:         objects.HostUp,
		StateType:            objects.StateTypeHard,
		HasBeenChecked:       true,
		MaxCheckAttempts:     3,
		CheckInterval:        5,
		RetryInterval:        1,
		PluginOutput:         "PING OK - Packet loss = 0%, RTA = 0.3 ms",
		LastCheck:            time.Now(),
		NextCheck:            time.Now().Add(5 * time.Minute),
		LastStateChange:      time.Now().Add(-48 * time.Hour),
		NotificationsEnabled: true,
		ActiveChecksEnabled:  true,
		Contacts:             []*objects.Contact{admin},
	}
	store.AddHost(dbHost)

	httpSvc := &objects.Service{
		Host:                 webHost,
		Description:          "HTTP",
		CurrentState:         objects.ServiceOK,
		StateType:            objects.StateTypeHard,
		HasBeenChecked:       true,
		MaxCheckAttempts:     3,
		CheckInterval:        1,
		RetryInterval:        1,
		PluginOutput:         "HTTP OK: HTTP/1.1 200 OK - 1234 bytes in 0.021 second response time",
		PerfData:             "time=0.021s;;;0.000;10.000 size=1234B;;;0",
		LastCheck:            time.Now(),
		NextCheck:            time.Now().Add(time.Minute),
		LastStateChange:      time.Now().Add(-72 * time.Hour),
		NotificationsEnabled: true,
		ActiveChecksEnabled:  true,
		Contacts:             []*objects.Contact{admin},
	}
	webHost.Services = append(webHost.Services, httpSvc)
	store.AddService(httpSvc)

	diskSvc := &objects.Service{
		Host:                 dbHost,
		Description:          "Disk Space /",
		CurrentState:         objects.ServiceWarning,
		StateType:            objects.StateTypeHard,
		HasBeenChecked:       true,
		MaxCheckAttempts:     3,
		CurrentAttempt:       3,
		CheckInterval:        5,
		RetryInterval:        1,
		PluginOutput:         "DISK WARNING - free space: / 512 MB (8% inode=74%)",
		PerfData:             "/=5632MB;6000;6500;0;7000",
		LastCheck:            time.Now(),
		NextCheck:            time.Now().Add(5 * time.Minute),
		LastStateChange:      time.Now().Add(-2 * time.Hour),
		NotificationsEnabled: true,
		ActiveChecksEnabled:  true,
		Contacts:             []*objects.Contact{admin},
	}
	dbHost.Services = append(dbHost.Services, diskSvc)
	store.AddService(diskSvc)

	return store
}
