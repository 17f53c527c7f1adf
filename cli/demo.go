package main

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"mahjong/framework/game"
	"mahjong/framework/game/engines/mahjong"

	"github.com/spf13/cobra"
)

var demoSeed int64

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "演示牌、牌山、手牌判定与几回合自动对局",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := demoSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return runDemo(cmd.OutOrStdout(), rand.New(rand.NewSource(seed)))
	},
}

func init() {
	demoCmd.Flags().Int64Var(&demoSeed, "seed", 0, "洗牌种子，0 表示随机")
}

func demoTitle(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func runDemo(w io.Writer, rng *rand.Rand) error {
	demoTitle(w, "牌")
	tiles := []mahjong.Tile{
		mahjong.MustTile(mahjong.SuitMan, 1, mahjong.HonorNone),
		mahjong.MustTile(mahjong.SuitPin, 5, mahjong.HonorNone),
		mahjong.MustTile(mahjong.SuitSou, 9, mahjong.HonorNone),
		mahjong.MustTile(mahjong.SuitHonor, 0, mahjong.East),
		mahjong.MustTile(mahjong.SuitHonor, 0, mahjong.White),
	}
	for _, t := range tiles {
		fmt.Fprintf(w, "  %s %s 幺九:%v 字牌:%v 中张:%v\n", t, t.DisplayName(), t.IsTerminal(), t.IsHonor(), t.IsSimple())
	}
	fmt.Fprintf(w, "排序后: %s\n", mahjong.FormatTiles(mahjong.SortedCopy(tiles)))

	demoTitle(w, "牌山")
	wall := mahjong.NewOrderedWall()
	fmt.Fprintf(w, "初始: %d 张\n", wall.Remaining())
	drawn, err := wall.DrawN(5)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "摸 5 张: %s，剩余 %d 张\n", mahjong.FormatTiles(drawn), wall.Remaining())

	demoTitle(w, "手牌")
	s := mahjong.NewSearcher(nil)
	for _, notation := range []string{"111m222m333m456p77s", "111m222m333m456p7s", "1112345678999m"} {
		if err := runCheck(w, notation, s); err != nil {
			return err
		}
	}

	demoTitle(w, "自动对局")
	table, err := game.NewTable("demo", []string{"东家", "南家", "西家", "北家"}, game.WithRand(rng))
	if err != nil {
		return err
	}
	session := newSession(table, strings.NewReader(""), w)
	session.auto = true
	session.maxTurns = 8
	return session.run()
}
