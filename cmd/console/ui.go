package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/ashfall/internal/events"
	"github.com/jwebster45206/ashfall/pkg/container"
	"github.com/jwebster45206/ashfall/pkg/dialogue"
	"github.com/jwebster45206/ashfall/pkg/savegame"
	"github.com/jwebster45206/ashfall/pkg/stats"
	"github.com/jwebster45206/ashfall/pkg/transfer"
)

const PlaceHolderText = "Type a command (/help for the list)..."

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	npcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var titleCaser = cases.Title(language.English)

// ConsoleUI is the BubbleTea model that runs the debug console against
// live engine state.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	world  *savegame.World
	runner *dialogue.Runner
	saver  *savegame.Saver
	chest  *container.Container
	events *events.Broadcaster // nil when Redis is not configured
	logger *slog.Logger

	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int

	lines []string

	// Active conversation, nil when not talking.
	dialogueNode  *dialogue.Node
	dialogueNPCID int

	showQuitModal bool
	dead          bool
}

type tickMsg time.Time

type saveDoneMsg struct{ err error }

func NewConsoleUI(world *savegame.World, runner *dialogue.Runner, saver *savegame.Saver,
	chest *container.Container, bcast *events.Broadcaster, logger *slog.Logger) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true
	metaVp := viewport.New(20, 20)

	ui := ConsoleUI{
		world:        world,
		runner:       runner,
		saver:        saver,
		chest:        chest,
		events:       bcast,
		logger:       logger,
		logViewport:  logVp,
		metaViewport: metaVp,
		textarea:     ta,
	}
	ui.println(titleStyle.Render("ASHFALL") + "  " + promptStyle.Render("debug console"))
	ui.println("Type /help for commands.")

	world.Survival.OnDeath(func() {
		logger.Info("Player died")
	})
	return ui
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tick())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.70) - 4
		metaWidth := m.width - logWidth - 6
		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(logWidth - 4)

		m.ready = true
		m.refreshLog()
		m.refreshMeta()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			return m.handleInput(input)
		}

	case tickMsg:
		if !m.dead {
			m.world.Survival.Tick(1)
			m.saver.AddPlaytime(1)
			if m.world.Survival.Dead() {
				m.dead = true
				m.println(errorStyle.Render("You have died."))
				m.refreshLog()
			}
			m.refreshMeta()
		}
		return m, tick()

	case saveDoneMsg:
		if msg.err != nil {
			m.println(errorStyle.Render("Save failed: " + msg.err.Error()))
		} else {
			m.println("Game saved.")
			if m.events != nil {
				_ = m.events.PublishGameSaved(context.Background(), m.saver.BaseName())
			}
		}
		m.refreshLog()
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) println(line string) {
	m.lines = append(m.lines, line)
}

func (m *ConsoleUI) refreshLog() {
	width := m.logViewport.Width - 6
	if width < 20 {
		width = 20
	}
	var content strings.Builder
	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, width) + "\n")
	}
	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) refreshMeta() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("VITALS") + "\n")
	for _, vital := range stats.SurvivalStats() {
		content.WriteString(fmt.Sprintf("%-7s %5.1f\n", titleCaser.String(string(vital)), m.world.Survival.Get(vital)))
	}

	content.WriteString("\n" + titleStyle.Render("STATS") + "\n")
	for _, entry := range m.world.Stats.Entries() {
		content.WriteString(fmt.Sprintf("%-13s %3d\n", titleCaser.String(string(entry.Stat)), entry.Value))
	}

	content.WriteString("\n" + titleStyle.Render("INVENTORY") + "\n")
	for _, mod := range m.world.Inventory.Modules() {
		content.WriteString(titleCaser.String(mod.Name) + ":\n")
		empty := true
		for i := 0; i < mod.Capacity(); i++ {
			st := mod.Slot(i).Stack()
			if st.Empty() {
				continue
			}
			empty = false
			content.WriteString(fmt.Sprintf("  %d: %s x%d\n", i, st.Item.DisplayName, st.Amount))
		}
		if empty {
			content.WriteString(promptStyle.Render("  (empty)") + "\n")
		}
	}

	content.WriteString("\n" + promptStyle.Render(fmt.Sprintf("Playtime %s", formatPlaytime(m.saver.Playtime()))))
	m.metaViewport.SetContent(content.String())
}

func formatPlaytime(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	return d.Truncate(time.Second).String()
}

func (m ConsoleUI) handleInput(input string) (tea.Model, tea.Cmd) {
	// A bare number answers the active conversation.
	if m.dialogueNode != nil {
		if idx, err := strconv.Atoi(input); err == nil {
			m.chooseDialogue(idx - 1)
			m.refreshLog()
			m.refreshMeta()
			return m, nil
		}
	}

	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/help":
		m.printHelp()
	case "/take":
		m.cmdTake(args)
	case "/drop":
		m.cmdDrop(args)
	case "/move":
		m.cmdMove(args)
	case "/use":
		m.cmdUse(args)
	case "/chest":
		m.cmdChest()
	case "/loot":
		m.cmdLoot(args)
	case "/stash":
		m.cmdStash(args)
	case "/talk":
		m.cmdTalk(args)
	case "/save":
		m.refreshLog()
		m.refreshMeta()
		return m, m.cmdSave()
	case "/load":
		m.cmdLoad()
	case "/delete":
		if err := m.saver.Delete(context.Background()); err != nil {
			m.println(errorStyle.Render("Delete failed: " + err.Error()))
		} else {
			m.println("Save deleted.")
		}
	case "/quit":
		m.refreshLog()
		m.showQuitModal = true
	default:
		m.println(warnStyle.Render("Unknown command: " + cmd))
	}

	m.refreshLog()
	m.refreshMeta()
	return m, nil
}

func (m *ConsoleUI) printHelp() {
	m.println(titleStyle.Render("Commands:"))
	m.println("  /take <item> [n]   grant items from the catalog")
	m.println("  /drop <item> [n]   discard held items")
	m.println("  /move <m> <s> <m> <s> [n]   move between slots")
	m.println("  /use <item>        consume an item")
	m.println("  /chest             show the crate contents")
	m.println("  /loot [i|all]      loot the crate")
	m.println("  /stash <item> [n]  deposit into the crate")
	m.println("  /talk <npc_id> <node>   start a conversation")
	m.println("  /save /load /delete     manage the save file")
	m.println("  /quit              leave the console")
}

func parseAmount(args []string, idx int) int {
	if len(args) <= idx {
		return 1
	}
	n, err := strconv.Atoi(args[idx])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (m *ConsoleUI) cmdTake(args []string) {
	if len(args) < 1 {
		m.println(warnStyle.Render("Usage: /take <item> [n]"))
		return
	}
	def, ok := m.world.Catalog.Get(args[0])
	if !ok {
		m.println(warnStyle.Render("No such item: " + args[0]))
		return
	}
	amount := parseAmount(args, 1)
	leftover := m.world.Inventory.Add(def, amount)
	if leftover > 0 {
		m.println(fmt.Sprintf("Took %d %s; no room for %d more.", amount-leftover, def.DisplayName, leftover))
		return
	}
	m.println(fmt.Sprintf("Took %d %s.", amount, def.DisplayName))
}

func (m *ConsoleUI) cmdDrop(args []string) {
	if len(args) < 1 {
		m.println(warnStyle.Render("Usage: /drop <item> [n]"))
		return
	}
	def, ok := m.world.Catalog.Get(args[0])
	if !ok {
		m.println(warnStyle.Render("No such item: " + args[0]))
		return
	}
	amount := parseAmount(args, 1)
	if !m.world.Inventory.Remove(def, amount) {
		m.println(warnStyle.Render(fmt.Sprintf("You do not have %d %s.", amount, def.DisplayName)))
		return
	}
	m.println(fmt.Sprintf("Dropped %d %s.", amount, def.DisplayName))
}

func (m *ConsoleUI) cmdMove(args []string) {
	if len(args) < 4 {
		m.println(warnStyle.Render("Usage: /move <from_module> <from_slot> <to_module> <to_slot> [n]"))
		return
	}
	nums := make([]int, 4)
	for i := 0; i < 4; i++ {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			m.println(warnStyle.Render("Indices must be numbers."))
			return
		}
		nums[i] = n
	}
	amount := 0 // full stack unless given
	if len(args) > 4 {
		amount = parseAmount(args, 4)
	}
	ok := transfer.Move(m.world.Inventory, transfer.Request{
		Source: transfer.SlotRef{Kind: transfer.KindInventory, Module: nums[0], Index: nums[1]},
		Dest:   transfer.SlotRef{Kind: transfer.KindInventory, Module: nums[2], Index: nums[3]},
		Amount: amount,
	})
	if !ok {
		m.println(warnStyle.Render("That move is not possible."))
		return
	}
	m.println("Moved.")
}

func (m *ConsoleUI) cmdUse(args []string) {
	if len(args) < 1 {
		m.println(warnStyle.Render("Usage: /use <item>"))
		return
	}
	def, ok := m.world.Catalog.Get(args[0])
	if !ok {
		m.println(warnStyle.Render("No such item: " + args[0]))
		return
	}
	if !m.runner.ConsumeItem(def) {
		m.println(warnStyle.Render("Cannot use " + def.DisplayName + "."))
		return
	}
	m.println("Used " + def.DisplayName + ".")
}

func (m *ConsoleUI) cmdChest() {
	stacks := m.chest.Stacks()
	m.println(titleStyle.Render(m.chest.Name) + fmt.Sprintf("  (%d/%d stacks)", len(stacks), m.chest.Capacity))
	if len(stacks) == 0 {
		m.println(promptStyle.Render("  (empty)"))
		return
	}
	for i, st := range stacks {
		m.println(fmt.Sprintf("  %d: %s x%d", i, st.Item.DisplayName, st.Amount))
	}
}

func (m *ConsoleUI) cmdLoot(args []string) {
	if len(args) == 0 || strings.EqualFold(args[0], "all") {
		m.chest.LootAll(m.world.Inventory)
		m.println("Looted what you could carry.")
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		m.println(warnStyle.Render("Usage: /loot [index|all]"))
		return
	}
	ok := transfer.Move(m.world.Inventory, transfer.Request{
		Source: transfer.SlotRef{Kind: transfer.KindContainer, Container: m.chest, Index: idx},
		Dest:   transfer.SlotRef{Kind: transfer.KindInventory, Index: transfer.AreaIndex},
	})
	if !ok {
		m.println(warnStyle.Render("Nothing moved."))
		return
	}
	m.println("Looted.")
}

func (m *ConsoleUI) cmdStash(args []string) {
	if len(args) < 1 {
		m.println(warnStyle.Render("Usage: /stash <item> [n]"))
		return
	}
	def, ok := m.world.Catalog.Get(args[0])
	if !ok {
		m.println(warnStyle.Render("No such item: " + args[0]))
		return
	}
	amount := parseAmount(args, 1)
	if !m.chest.DepositFromInventory(m.world.Inventory, def, amount) {
		m.println(warnStyle.Render("Nothing stashed."))
		return
	}
	m.println(fmt.Sprintf("Stashed %s into %s.", def.DisplayName, m.chest.Name))
}

func (m *ConsoleUI) cmdTalk(args []string) {
	if len(args) < 2 {
		m.println(warnStyle.Render("Usage: /talk <npc_id> <node>"))
		return
	}
	npcID, err := strconv.Atoi(args[0])
	if err != nil {
		m.println(warnStyle.Render("NPC ID must be a number."))
		return
	}
	node, ok := m.runner.StartingNode(npcID, args[1])
	if !ok {
		m.println(warnStyle.Render("No such dialogue node: " + args[1]))
		return
	}
	m.dialogueNPCID = npcID
	m.showDialogueNode(node)
}

func (m *ConsoleUI) showDialogueNode(node *dialogue.Node) {
	m.dialogueNode = node
	speaker := node.NPCName
	if speaker == "" {
		speaker = "NPC"
	}
	m.println("")
	m.println(speakerStyle.Render(speaker+":") + " " + npcStyle.Render(node.Text))
	if len(node.Choices) == 0 {
		m.dialogueNode = nil
		return
	}
	for i, ch := range node.Choices {
		m.println(playerStyle.Render(fmt.Sprintf("  %d) %s", i+1, ch.PlayerText)))
	}
	m.println(promptStyle.Render("Enter a number to answer."))
}

func (m *ConsoleUI) chooseDialogue(idx int) {
	node := m.dialogueNode
	m.dialogueNode = nil

	out, ok := m.runner.Choose(m.dialogueNPCID, node, idx)
	if !ok {
		m.println(warnStyle.Render("That is not one of the choices."))
		m.dialogueNode = node
		return
	}
	switch out.Branch {
	case dialogue.BranchSuccess:
		m.println(promptStyle.Render("(success)"))
	case dialogue.BranchFailure:
		m.println(promptStyle.Render("(failure)"))
	}
	if out.Next != nil {
		m.showDialogueNode(out.Next)
		return
	}
	m.println(promptStyle.Render("The conversation ends."))
}

func (m *ConsoleUI) cmdSave() tea.Cmd {
	done := m.saver.Save(context.Background(), m.world, nil)
	return func() tea.Msg {
		return saveDoneMsg{err: <-done}
	}
}

func (m *ConsoleUI) cmdLoad() {
	err := m.saver.Load(context.Background(), m.world)
	switch {
	case err == nil:
		m.dead = m.world.Survival.Dead()
		m.dialogueNode = nil
		m.println("Game loaded.")
		if m.events != nil {
			_ = m.events.PublishGameLoaded(context.Background(), m.saver.BaseName())
		}
	case errors.Is(err, savegame.ErrNoSave):
		m.println(warnStyle.Render("No save file."))
	case errors.Is(err, savegame.ErrIntegrity):
		m.println(errorStyle.Render("Save file is corrupt or modified; nothing loaded."))
	default:
		m.println(errorStyle.Render("Load failed: " + err.Error()))
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter, tea.KeyEsc:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress will be lost.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(44).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.70) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}
