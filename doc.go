// Package ssd1306fx animates dialog text and bitmaps on small monochrome OLED
// displays such as the 128×64 SSD1306.
//
// It provides three building blocks on top of a FrameBuffer:
//
// - Stage.Scroll pans a tall bitmap through a fixed-height viewport
// - Stage.Reveal prints visual-novel style dialog character by character
// - Gate blinks a click-to-confirm indicator until input or a timeout
//
// plus fades, fills and layout clears for transitions between scenes.
//
// # Frame Buffer
//
// Canvas is the FrameBuffer implementation. It keeps a 1-bit frame in memory
// (image1bit.HorizontalMSB), renders text with any golang.org/x/image font.Face
// and presents to a periph.io display.Drawer. Only the changed region is sent
// on each Present, which keeps I²C transfers short:
//
//	dev, _ := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
//	canvas := ssd1306fx.NewCanvas(dev, nil)
//
// For development without a panel, fbdev.Dev shows the same frame scaled up on
// a Linux framebuffer.
//
// # Input
//
// Confirms poll an Input. Three are provided:
//
//	ssd1306fx.OpenSerial("/dev/ttyUSB0")          // any byte confirms
//	ssd1306fx.NewPinInput(pin, gpio.Low)          // push button to ground
//	ssd1306fx.NewQueueInput()                     // fed by code, e.g. stdin
//
// # Dialog
//
// Dialog text may contain the Marker rune (a backtick) to pause for a confirm
// mid-sentence:
//
//	stage := ssd1306fx.NewStage(canvas, input, nil)
//	stage.Reveal(ctx, "Narrator", "It was late.`The lamp flickered.", nil)
//	stage.ClearHeader(ctx)
//	stage.ClearDialog(ctx)
//
// Reveal waits once per marker and once more after the last character. The
// marker cannot be displayed literally.
//
// # Scrolling
//
// Scroll pans a bitmap taller than the viewport. With a positive Step it
// scrolls down to the bitmap's bottom (End <= 0) or End rows past the first
// screen; with a negative Step it scrolls up until bitmap row End is at the
// top. Without AllowOverflow the viewport never leaves the bitmap:
//
//	bmp, _ := image1bit.FromBytes(asset, 128, 192)
//	stage.Scroll(ctx, bmp, &ssd1306fx.ScrollOpts{Step: 2, SnapToEnd: true})
//
// # Timing
//
// Every delay goes through a Clock, and waits are cooperative: Gate.Begin
// returns a Pending whose Step polls once, so a host event loop can drive a
// confirm without blocking. A Stage, its FrameBuffer and its Input must only
// be used by one goroutine at a time.
package ssd1306fx
