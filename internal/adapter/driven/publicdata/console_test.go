package publicdata

import "github.com/diillson/kr-realestate-report/internal/shared/types"

type nopConsole struct{}

func (nopConsole) Print(...interface{})                         {}
func (nopConsole) LogInfo(string, ...interface{})               {}
func (nopConsole) LogWarning(string, ...interface{})            {}
func (nopConsole) LogError(string, ...interface{})              {}
func (nopConsole) LogSuccess(string, ...interface{})            {}
func (nopConsole) LogDebug(string, ...interface{})              {}
func (nopConsole) Status(string) types.StatusHandle             { return nopHandle{} }
func (nopConsole) ProgressWithTotal(int) types.ProgressHandle   { return nopHandle{} }
func (nopConsole) CreateTable() types.TableInterface            { return nopTable{} }
func (nopConsole) DisplayTrendBars(string, []types.PeriodValue) {}

type nopHandle struct{}

func (nopHandle) Update(string) {}
func (nopHandle) Increment()    {}
func (nopHandle) Stop()         {}

type nopTable struct{}

func (nopTable) AddColumn(string, ...interface{}) {}
func (nopTable) AddRow(...interface{})            {}
func (nopTable) Render() string                   { return "" }
