package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/calvinmclean/autofeeder"
	"github.com/calvinmclean/autofeeder/controller"
)

// Connection is a Client that has to be closed
type Connection interface {
	Client
	Close() error
}

// Connect opens a Connection for the submitted config
type Connect func(controller.Config) (Connection, error)

// ControllerConnect connects to a real or simulated device with the controller package
func ControllerConnect(logger zerolog.Logger) Connect {
	return func(cfg controller.Config) (Connection, error) {
		c, err := controller.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

type FeederUI struct {
	connect Connect
	logger  zerolog.Logger
}

func NewFeederUI(connect Connect, logger zerolog.Logger) *FeederUI {
	return &FeederUI{connect: connect, logger: logger}
}

type slotRow struct {
	entry  *widget.Entry
	status *widget.Label
}

// Run shows the configuration window and then the schedule editor. It blocks until the app
// quits or ctx is done
func (ui *FeederUI) Run(ctx context.Context, cfg controller.Config) {
	application := app.NewWithID("com.calvinmclean.autofeeder")

	var conn Connection
	defer func() {
		if conn != nil {
			_ = conn.Close()
		}
	}()

	configWindow := NewConfigWindow(application)
	configWindow.OnSubmit = func(cfg controller.Config) {
		c, err := ui.connect(cfg)
		if err != nil {
			window := application.NewWindow("Auto Feeder")
			window.Show()
			showError(application, window, fmt.Errorf("error connecting: %w", err))
			return
		}
		conn = c
		ui.logger.Info().Str("port", cfg.SerialPort).Msg("connected")
		ui.showSchedule(application, conn)
	}
	configWindow.Show(cfg)

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			application.Quit()
		})
	}()

	application.Run()
}

func (ui *FeederUI) showSchedule(application fyne.App, client Client) {
	window := application.NewWindow("Auto Feeder")
	wrapper := &controllerWrapper{client: client}

	hostClock := newClock()
	hostClock.Go()
	window.SetOnClosed(hostClock.Stop)

	var rows [autofeeder.MaxTasks]slotRow

	showSlots := func(slots [autofeeder.MaxTasks]slot) {
		for i, s := range slots {
			rows[i].status.SetText(s.State.String())
			if s.Time.Valid() {
				rows[i].entry.SetText(s.Time.String())
			} else {
				rows[i].entry.SetText("")
			}
		}
	}

	// run calls f off the UI goroutine and shows the result on it
	run := func(name string, f func() ([autofeeder.MaxTasks]slot, error)) {
		go func() {
			slots, err := f()
			fyne.Do(func() {
				if err != nil {
					ui.logger.Error().Err(err).Str("action", name).Msg("device error")
					dialog.ShowError(err, window)
					return
				}
				showSlots(slots)
			})
		}()
	}

	grid := container.NewGridWithColumns(5)
	for i := range rows {
		index := i
		rows[i] = slotRow{
			entry:  widget.NewEntry(),
			status: widget.NewLabel(stateUnknown.String()),
		}
		rows[i].entry.SetPlaceHolder("HH:MM")

		setButton := widget.NewButton("Set", func() {
			text := rows[index].entry.Text
			run("set", func() ([autofeeder.MaxTasks]slot, error) { return wrapper.SetSlot(index, text) })
		})
		removeButton := widget.NewButton("Remove", func() {
			run("remove", func() ([autofeeder.MaxTasks]slot, error) { return wrapper.SetSlot(index, "") })
		})

		grid.Add(widget.NewLabel(fmt.Sprintf("Slot %d", index)))
		grid.Add(rows[i].entry)
		grid.Add(rows[i].status)
		grid.Add(setButton)
		grid.Add(removeButton)
	}

	refreshButton := widget.NewButton("Refresh", func() {
		run("refresh", wrapper.Refresh)
	})

	syncButton := widget.NewButton("Sync Clock", func() {
		go func() {
			now := time.Now()
			err := wrapper.SyncClock(now)
			fyne.Do(func() {
				if err != nil {
					dialog.ShowError(err, window)
					return
				}
				hostClock.Synced(now)
			})
		}()
	})

	fireButton := widget.NewButton("Feed Now", func() {
		dialog.ShowConfirm("Feed Now", "Run the feeder now?", func(ok bool) {
			if !ok {
				return
			}
			go func() {
				err := wrapper.Fire()
				if err != nil {
					fyne.Do(func() { dialog.ShowError(err, window) })
				}
			}()
		}, window)
	})

	content := container.NewVBox(
		container.NewHBox(
			container.NewPadded(hostClock.text),
			layout.NewSpacer(),
		),
		widget.NewCard("Schedule", "Empty slots are off", grid),
		container.NewHBox(refreshButton, syncButton, layout.NewSpacer(), fireButton),
	)

	window.SetContent(content)
	window.Resize(fyne.NewSize(520, 360))
	window.Show()

	run("refresh", wrapper.Refresh)
}
