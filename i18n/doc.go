// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package i18n resolves English/Arabic text for the poll.

# Resolution

Every user-facing string is a BilingualText record:

	title := i18n.Resolve(cfg.WebPartTitle, lang)

Arabic returns the ar variant; English and any unrecognized selector
return the en variant. Resolve never fails.

# Direction

	i18n.Direction(i18n.Arabic)  // "rtl"
	i18n.Direction(i18n.English) // "ltr"

# Text Configuration

TextConfiguration groups the poll's strings. LoadTextConfiguration reads a
JSON table keyed like the resolved map (web_part_title, submit_button_text,
...) and fills any blank variant from DefaultTextConfiguration.
*/
package i18n
