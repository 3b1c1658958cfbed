package session

import (
	"strconv"
	"strings"

	"github.com/AlexeyInc/Color-Lines/internal/game"
)

// Setting names a player-adjustable rule.
type Setting string

const (
	SettingBoardSize     Setting = "board_size"
	SettingBallsInLine   Setting = "balls_in_line"
	SettingDroppingBalls Setting = "dropping_balls"
)

// Panel names a collapsible presentation panel.
type Panel string

const (
	PanelSettings Panel = "settings"
	PanelAbout    Panel = "about"
)

// Visibility of a panel. Panels start Collapsed and then alternate between
// Visible and Hidden.
type Visibility string

const (
	Collapsed Visibility = "collapsed"
	Visible   Visibility = "visible"
	Hidden    Visibility = "hidden"
)

func (c *Controller) BoardSize() string {
	return strconv.Itoa(c.engine.Settings().BoardSize)
}

func (c *Controller) NumBallsInLine() string {
	return strconv.Itoa(c.engine.Settings().NumBallsInLine)
}

func (c *Controller) RandomDroppingBalls() string {
	return strconv.Itoa(c.engine.Settings().DropBallsPerStep)
}

// SetBoardSize changes the board size and resets the game.
func (c *Controller) SetBoardSize(value string) error {
	return c.changeSetting(SettingBoardSize, value, PromptBoardSize, c.engine.ChangeBoardSize)
}

// SetNumBallsInLine changes how many balls form a line and resets the game.
func (c *Controller) SetNumBallsInLine(value string) error {
	return c.changeSetting(SettingBallsInLine, value, PromptBallsInLine, c.engine.ChangeCountBallsForLineCollected)
}

// SetRandomDroppingBalls changes how many balls drop per step and resets the game.
func (c *Controller) SetRandomDroppingBalls(value string) error {
	return c.changeSetting(SettingDroppingBalls, value, PromptDroppingBalls, c.engine.ChangeDroppingBallsPerStep)
}

// changeSetting parses value, asks for confirmation, applies the change and
// rebuilds the board. Any failure leaves board, score, settings and state as
// they were.
func (c *Controller) changeSetting(name Setting, value, prompt string, apply func(int) bool) error {
	to, err := next(c.state, EventSettingsChanged)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return &InvalidSettingError{Setting: name, Value: value, Err: err}
	}
	if c.confirm != nil && !c.confirm.Confirm(prompt) {
		return ErrChangeDeclined
	}

	prev := c.engine.Settings()
	if !apply(n) {
		return &InvalidSettingError{Setting: name, Value: value, Err: game.ErrInvalidSettings}
	}
	if err := c.initGameComponent(); err != nil {
		if rbErr := c.engine.ApplySettings(prev); rbErr != nil {
			c.log.Error().Err(rbErr).Msg("roll back settings")
		}
		return err
	}
	c.setState(to)
	c.log.Info().Str("setting", string(name)).Int("value", n).Msg("settings changed")
	c.publish(Notification{Kind: KindSettingsChanged, Settings: c.engine.Settings()})
	return nil
}

// OpenSettings toggles the settings panel.
func (c *Controller) OpenSettings() Visibility { return c.togglePanel(PanelSettings) }

// OpenAboutGame toggles the about panel.
func (c *Controller) OpenAboutGame() Visibility { return c.togglePanel(PanelAbout) }

// PanelVisibility reports the current visibility of p.
func (c *Controller) PanelVisibility(p Panel) Visibility { return c.panels[p] }

func (c *Controller) AboutText() string { return c.about }

func (c *Controller) togglePanel(p Panel) Visibility {
	v := Visible
	if c.panels[p] == Visible {
		v = Hidden
	}
	c.panels[p] = v
	c.publish(Notification{Kind: KindPanelToggled, Panel: p, Visibility: v})
	return v
}
