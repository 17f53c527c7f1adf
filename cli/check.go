package main

import (
	"fmt"
	"io"
	"strings"

	"mahjong/framework/game/engines/mahjong"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:     "check <hand>",
	Short:   "判断一手牌是否和了、听牌以及听哪些牌",
	Example: "  mahjong check 111m222m333m456p77s\n  mahjong check \"123m 456p 789s 23s EE\"",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.OutOrStdout(), strings.Join(args, " "), mahjong.NewSearcher(nil))
	},
}

func runCheck(w io.Writer, notation string, s *mahjong.Searcher) error {
	tiles, err := mahjong.ParseHand(notation)
	if err != nil {
		return err
	}
	sorted := mahjong.SortedCopy(tiles)
	fmt.Fprintf(w, "手牌: %s (%d 张)\n", mahjong.FormatTiles(sorted), len(tiles))

	switch len(tiles) {
	case mahjong.HandSizeComplete:
		agari, ok := s.DecomposeWin(tiles)
		if !ok {
			fmt.Fprintln(w, "和了: 否")
			return nil
		}
		fmt.Fprintln(w, "和了: 是")
		fmt.Fprintf(w, "  雀头 %s%s\n", agari.Pair, agari.Pair)
		for _, m := range agari.Melds {
			fmt.Fprintf(w, "  %s %s\n", meldName(m.Kind), mahjong.FormatTiles(m.Tiles[:]))
		}
	case mahjong.HandSizeTenpai:
		waits := s.WaitingTiles(tiles).Sorted()
		if len(waits) == 0 {
			fmt.Fprintln(w, "听牌: 否")
			return nil
		}
		fmt.Fprintf(w, "听牌: 是，待 %s\n", mahjong.FormatTiles(waits))
	default:
		fmt.Fprintf(w, "张数不是 %d 或 %d，既不能和了也不能听牌\n", mahjong.HandSizeTenpai, mahjong.HandSizeComplete)
	}
	return nil
}

func meldName(k mahjong.MeldKind) string {
	if k == mahjong.Triplet {
		return "刻子"
	}
	return "顺子"
}
