package ui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/calvinmclean/autofeeder/controller"
)

type ConfigWindow struct {
	app      fyne.App
	OnSubmit func(controller.Config)
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

// configForm holds the text of each field while the window is open
type configForm struct {
	SerialPort  string
	BaudRate    string
	ReadTimeout string
	StateFile   string
}

func (f configForm) parse(base controller.Config) (controller.Config, error) {
	cfg := base
	cfg.SerialPort = f.SerialPort
	cfg.StateFile = f.StateFile

	baud, err := strconv.Atoi(f.BaudRate)
	if err != nil {
		return controller.Config{}, fmt.Errorf("invalid baud rate %q", f.BaudRate)
	}
	cfg.BaudRate = baud

	cfg.ReadTimeout, err = time.ParseDuration(f.ReadTimeout)
	if err != nil {
		return controller.Config{}, fmt.Errorf("invalid read timeout %q", f.ReadTimeout)
	}

	return cfg, cfg.Validate()
}

func (cw *ConfigWindow) loadConfigFromPreferences(cfg controller.Config) configForm {
	prefs := cw.app.Preferences()
	return configForm{
		SerialPort:  prefs.StringWithFallback("serialPort", cfg.SerialPort),
		BaudRate:    prefs.StringWithFallback("baudRate", strconv.Itoa(cfg.BaudRate)),
		ReadTimeout: prefs.StringWithFallback("readTimeout", cfg.ReadTimeout.String()),
		StateFile:   prefs.StringWithFallback("stateFile", cfg.StateFile),
	}
}

func (cw *ConfigWindow) saveConfigToPreferences(form configForm) {
	prefs := cw.app.Preferences()
	prefs.SetString("serialPort", form.SerialPort)
	prefs.SetString("baudRate", form.BaudRate)
	prefs.SetString("readTimeout", form.ReadTimeout)
	prefs.SetString("stateFile", form.StateFile)
}

// Show opens the window with values from preferences, falling back to cfg
func (cw *ConfigWindow) Show(cfg controller.Config) {
	window := cw.app.NewWindow("Auto Feeder - Configuration")
	window.Resize(fyne.NewSize(400, 250))
	window.SetCloseIntercept(func() {
		// Treat window close as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	form := cw.loadConfigFromPreferences(cfg)

	serialPorts, err := controller.GetSerialPorts()
	if err != nil && !errors.Is(err, controller.ErrNoUSBSerial) {
		showError(cw.app, window, fmt.Errorf("error getting serial ports: %w", err))
		return
	}

	serialPorts = append(serialPorts, controller.SerialPortNone)

	serialEntry := widget.NewSelect(serialPorts, nil)
	if form.SerialPort == "" {
		form.SerialPort = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&form.SerialPort))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.BindString(&form.BaudRate))

	readTimeoutEntry := widget.NewEntry()
	readTimeoutEntry.Bind(binding.BindString(&form.ReadTimeout))

	stateFileEntry := widget.NewEntry()
	stateFileEntry.SetPlaceHolder("only used with \"none\"")
	stateFileEntry.Bind(binding.BindString(&form.StateFile))

	errorLabel := widget.NewLabel("")

	submitButton := widget.NewButton("Submit", func() {
		result, err := form.parse(cfg)
		if err != nil {
			errorLabel.SetText(err.Error())
			return
		}
		cw.saveConfigToPreferences(form)
		window.Close()
		cw.OnSubmit(result)
	})

	validateForm := func() {
		_, err := form.parse(cfg)
		if err != nil {
			errorLabel.SetText(err.Error())
			submitButton.Disable()
			return
		}
		errorLabel.SetText("")
		submitButton.Enable()
	}

	// Add listeners to field changes
	serialEntry.OnChanged = func(_ string) { validateForm() }
	baudRateEntry.OnChanged = func(_ string) { validateForm() }
	readTimeoutEntry.OnChanged = func(_ string) { validateForm() }

	// Initial validation
	validateForm()

	content := container.NewVBox(
		widget.NewCard("Configuration", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Serial Port:"),
				serialEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Baud Rate:"),
				baudRateEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Read Timeout:"),
				readTimeoutEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Simulator State File:"),
				stateFileEntry,
			),
		)),
		errorLabel,
		container.NewHBox(
			widget.NewButton("Cancel", func() {
				window.Close()
				cw.app.Quit()
			}),
			submitButton,
		),
	)

	window.SetContent(content)
}

func showError(app fyne.App, window fyne.Window, err error) {
	d := dialog.NewError(err, window)
	d.SetOnClosed(func() {
		app.Quit()
	})
	d.Show()
}
