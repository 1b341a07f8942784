package description

import "regexp"

// Line-level patterns. Header patterns only match lines that are headers as a
// whole (optional decoration, the header word, optional serving note or
// closing decoration), so sentences that merely contain "材料" do not open a
// section.
const (
	headerPrefix = `^[\s　]*(?:[・●○◆◇■□★☆▼▽▶►♦◎【\[［〈《<＜『「#＃*＊•\-]+[\s　]*)?`
	headerSuffix = `(?:[\s　]*(?:[（(][^）)]*[）)]|[0-9０-９]+[\s　]*(?:人分|人前|個分|servings?)|for[\s　]+[0-9]+(?:[\s　]+servings?)?|[】\]］〉》>＞』」★☆・●◆■◇□:：]))*[\s　]*$`
)

var (
	ingredientsHeaderRe = regexp.MustCompile(
		`(?i)` + headerPrefix + `(?:材料|食材|用意するもの|ingredients?)` + headerSuffix)

	instructionsHeaderRe = regexp.MustCompile(
		`(?i)` + headerPrefix + `(?:作り方|つくり方|調理手順|調理方法|手順|instructions?|directions?|method|steps?|how[\s　]+to[\s　]+make)` + headerSuffix)

	// longRuleRe is a separator long enough to end the recipe part of a description.
	longRuleRe = regexp.MustCompile(`^[\s　]*[-ー―─━=＝_＿*＊~〜－—]{10,}[\s　]*$`)

	// promoRe matches lines that start SNS, channel or shop promotion blocks.
	promoRe = regexp.MustCompile(
		`(?i)` + headerPrefix + `(?:instagram|twitter|tiktok|facebook|threads|line公式|sns|blog|ブログ|公式サイト|ホームページ|チャンネル登録|お仕事(?:の)?(?:依頼|相談)|お問い合わせ|使用(?:している)?(?:調理)?(?:器具|道具|食器)|おすすめ動画|関連動画|music|bgm)`)

	// hashtagLineRe matches a line made only of hashtags.
	hashtagLineRe = regexp.MustCompile(`^[\s　]*[#＃][^\s　#＃]+(?:[\s　]+[#＃][^\s　#＃]+)*[\s　]*$`)

	// recipeMarkerRe matches the "here is today's recipe" line that precedes a
	// rule-delimited recipe block.
	recipeMarkerRe = regexp.MustCompile(
		`(?i)(?:今回の|本日の|今日の)レシピ|レシピはこちら|today'?s[\s　]+recipe|recipe[\s　]+(?:below|here)|here[\s　]+is[\s　]+the[\s　]+recipe`)

	// ruleRe is a horizontal rule of four or more dash or box characters.
	ruleRe = regexp.MustCompile(`^[\s　]*[-—―─━－ー]{4,}[\s　]*$`)
)

func isIngredientsHeader(line string) bool {
	return ingredientsHeaderRe.MatchString(line)
}

func isInstructionsHeader(line string) bool {
	return instructionsHeaderRe.MatchString(line)
}

func isHeader(line string) bool {
	return isIngredientsHeader(line) || isInstructionsHeader(line)
}

func isPromo(line string) bool {
	return promoRe.MatchString(line) || hashtagLineRe.MatchString(line)
}

func isRule(line string) bool {
	return ruleRe.MatchString(line) || longRuleRe.MatchString(line)
}
